package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xelth-com/drawerscan/internal/models"
)

// FlightResponse answers a flight selection
type FlightResponse struct {
	Status       string  `json:"status"`
	ActiveFlight *string `json:"vuelo_actual"`
	Message      string  `json:"message"`
}

// selectFlight sets the active flight from ?vuelo= (or a form value on POST)
func (r *Router) selectFlight(w http.ResponseWriter, req *http.Request) {
	vuelo := strings.TrimSpace(req.FormValue("vuelo"))
	if vuelo == "" {
		respondError(w, http.StatusBadRequest, "vuelo is required")
		return
	}
	if r.requireKnownFlight && !r.catalog.HasFlight(vuelo) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown flight %s", strings.ToUpper(vuelo)))
		return
	}

	selected := r.svc.SelectFlight(vuelo)
	respondJSON(w, http.StatusOK, FlightResponse{
		Status:       "ok",
		ActiveFlight: models.FlightPtr(selected),
		Message:      fmt.Sprintf("Vuelo %s seleccionado.", selected),
	})
}

func (r *Router) listFlights(w http.ResponseWriter, req *http.Request) {
	flights := r.catalog.Flights
	if flights == nil {
		flights = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"vuelos": flights})
}

func (r *Router) activeFlight(w http.ResponseWriter, req *http.Request) {
	flight, _ := r.svc.ActiveFlight()
	respondJSON(w, http.StatusOK, map[string]interface{}{"vuelo_actual": models.FlightPtr(flight)})
}
