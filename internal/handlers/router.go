package handlers

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/buildinfo"
	"github.com/xelth-com/drawerscan/internal/catalog"
	"github.com/xelth-com/drawerscan/internal/scanner"
	"github.com/xelth-com/drawerscan/internal/websocket"
)

// Options are the collaborators the HTTP surface is built on
type Options struct {
	Service            *scanner.Service
	Catalog            *catalog.Catalog
	Hub                *websocket.Hub // optional
	Static             fs.FS          // optional scanner page
	RequireKnownFlight bool
	Logger             *zap.Logger
	Now                func() time.Time
}

// Router wraps the mux router and the scan service
type Router struct {
	*mux.Router
	svc                *scanner.Service
	catalog            *catalog.Catalog
	hub                *websocket.Hub
	requireKnownFlight bool
	log                *zap.Logger
	now                func() time.Time
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(opts Options) *Router {
	r := &Router{
		Router:             mux.NewRouter(),
		svc:                opts.Service,
		catalog:            opts.Catalog,
		hub:                opts.Hub,
		requireKnownFlight: opts.RequireKnownFlight,
		log:                opts.Logger,
		now:                opts.Now,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.catalog == nil {
		r.catalog = &catalog.Catalog{}
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Scanner page API
	r.HandleFunc("/ultimo_qr", r.lastResult).Methods("GET")
	r.HandleFunc("/seleccionar_vuelo", r.selectFlight).Methods("GET", "POST")
	r.HandleFunc("/vuelos_disponibles", r.listFlights).Methods("GET")
	r.HandleFunc("/vuelo_actual", r.activeFlight).Methods("GET")

	// Fill counts
	r.HandleFunc("/conteo", r.fillCounts).Methods("GET")
	r.HandleFunc("/conteo.xlsx", r.fillCountsXLSX).Methods("GET")
	r.HandleFunc("/conteo/{flight}", r.resetFlight).Methods("DELETE")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scan", r.handleScan).Methods("POST")
	api.HandleFunc("/print/labels", r.generateLabels).Methods("POST")
	api.HandleFunc("/devices", r.listDevices).Methods("GET")

	if r.hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(r.hub, w, req)
		})
	}

	if opts.Static != nil {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(opts.Static)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	resp := map[string]interface{}{
		"status":       "ok",
		"build":        buildinfo.Info(r.now()),
		"drawers":      len(r.svc.Registry().IDs()),
		"dedup_window": r.svc.DedupWindow().String(),
		"catalog":      r.catalog.Source,
	}
	if flight, ok := r.svc.ActiveFlight(); ok {
		resp["vuelo_actual"] = flight
	}
	if r.hub != nil {
		resp["ws_clients"] = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// listDevices returns the connected websocket clients
func (r *Router) listDevices(w http.ResponseWriter, req *http.Request) {
	devices := []string{}
	if r.hub != nil {
		devices = r.hub.Devices()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
