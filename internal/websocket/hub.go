package websocket

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/models"
)

// ScanFunc hands a payload received from a device to the scan pipeline
type ScanFunc func(ctx context.Context, payload string) error

// Event is the envelope pushed to every connected client
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type identifyRequest struct {
	client   *Client
	deviceID string
}

// Hub maintains the set of active clients and broadcasts scan results
type Hub struct {
	// Registered clients map: DeviceID -> Client
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	identify   chan identifyRequest

	// Outbound messages for every client
	broadcast chan []byte

	// Closed when Run returns
	done chan struct{}

	scan ScanFunc
	log  *zap.Logger

	mu sync.RWMutex
}

// NewHub creates a new Hub instance. scan may be nil when devices are listen-only.
func NewHub(scan ScanFunc, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		identify:   make(chan identifyRequest),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[string]*Client),
		done:       make(chan struct{}),
		scan:       scan,
		log:        log.With(zap.String("component", "ws")),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			id := client.DeviceID()
			h.mu.Lock()
			// A device connecting again replaces its old connection
			if old, ok := h.clients[id]; ok && old != client {
				close(old.send)
			}
			h.clients[id] = client
			h.mu.Unlock()
			h.log.Info("client connected", zap.String("device", id))

		case req := <-h.identify:
			prev := req.client.DeviceID()
			h.mu.Lock()
			if cur, ok := h.clients[prev]; ok && cur == req.client {
				delete(h.clients, prev)
			}
			if old, ok := h.clients[req.deviceID]; ok && old != req.client {
				close(old.send)
			}
			req.client.setDeviceID(req.deviceID)
			h.clients[req.deviceID] = req.client
			h.mu.Unlock()
			h.log.Info("device identified", zap.String("device", req.deviceID))

		case client := <-h.unregister:
			id := client.DeviceID()
			h.mu.Lock()
			if cur, ok := h.clients[id]; ok && cur == client {
				delete(h.clients, id)
				close(client.send)
				h.log.Info("client disconnected", zap.String("device", id))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, c := range h.clients {
				select {
				case c.send <- message:
				default:
					h.log.Warn("client buffer full, message dropped", zap.String("device", id))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// OnScanOutcome pushes a SCAN_RESULT event to every client. It never blocks;
// results are dropped when the broadcast queue is full.
func (h *Hub) OnScanOutcome(outcome models.ScanOutcome) {
	msg, err := json.Marshal(Event{Type: "SCAN_RESULT", Data: outcome})
	if err != nil {
		h.log.Error("marshal scan result", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, scan result dropped", zap.String("status", string(outcome.Status)))
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Devices returns the ids of connected clients, sorted
func (h *Hub) Devices() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
