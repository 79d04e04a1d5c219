package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/report"
	"github.com/xelth-com/drawerscan/internal/utils"
)

// fillCounts returns every flight's counts, or one flight's with ?flight=
func (r *Router) fillCounts(w http.ResponseWriter, req *http.Request) {
	if flight := utils.NormalizeID(req.URL.Query().Get("flight")); flight != "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"flight":  flight,
			"drawers": r.svc.FlightFill(flight),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"flights": r.svc.FillSnapshot()})
}

// resetFlight zeroes all counts of one flight
func (r *Router) resetFlight(w http.ResponseWriter, req *http.Request) {
	flight := utils.NormalizeID(mux.Vars(req)["flight"])
	if !r.svc.ResetFlight(flight) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no counts for flight %s", flight))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "flight": flight})
}

func (r *Router) fillCountsXLSX(w http.ResponseWriter, req *http.Request) {
	now := r.now()
	var buf bytes.Buffer
	if err := report.WriteFillXLSX(&buf, r.svc.FillSnapshot(), now); err != nil {
		r.log.Error("render fill report", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"conteo_%s.xlsx\"", now.Format("20060102_150405")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
