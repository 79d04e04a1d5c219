package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/models"
)

const maxScanBody = 64 * 1024

// ScanRequest is the wrapped form of a POST /api/scan body
type ScanRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// ScanResponse reports whether the payload went through the pipeline
type ScanResponse struct {
	Processed bool               `json:"processed"`
	Result    models.ScanOutcome `json:"result"`
}

// lastResult returns the latest outcome, clearing it first on ?clear=true
func (r *Router) lastResult(w http.ResponseWriter, req *http.Request) {
	if clear, _ := strconv.ParseBool(req.URL.Query().Get("clear")); clear {
		respondJSON(w, http.StatusOK, r.svc.ClearLastResult())
		return
	}
	respondJSON(w, http.StatusOK, r.svc.LastResult())
}

// handleScan feeds a decoded payload into the pipeline. The body is either the
// raw payload or {"payload": ...} where payload is a string or an object.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxScanBody))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	payload := unwrapScanBody(body)
	if strings.TrimSpace(payload) == "" {
		respondError(w, http.StatusBadRequest, "Empty payload")
		return
	}

	outcome, processed := r.svc.Process(payload)
	if !processed {
		r.log.Debug("duplicate scan suppressed", zap.String("remote", req.RemoteAddr))
	}
	respondJSON(w, http.StatusOK, ScanResponse{Processed: processed, Result: outcome})
}

// unwrapScanBody extracts the payload from a {"payload": ...} envelope. Any
// other body is the payload itself.
func unwrapScanBody(body []byte) string {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped) == 1 {
		if raw, ok := wrapped["payload"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s
			}
			return string(raw)
		}
	}
	return string(body)
}
