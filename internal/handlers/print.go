package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xelth-com/drawerscan/internal/services/printer"
)

// generateLabels handles the PDF generation request
func (r *Router) generateLabels(w http.ResponseWriter, req *http.Request) {
	var sheet printer.LabelSheet
	if err := json.NewDecoder(req.Body).Decode(&sheet); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(sheet.Labels) == 0 {
		respondError(w, http.StatusBadRequest, "labels is required")
		return
	}

	pdfBytes, err := printer.GenerateLabelsPDF(sheet)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	// Set headers for download
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"labels_%d.pdf\"", len(sheet.Labels)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))

	w.Write(pdfBytes)
}
