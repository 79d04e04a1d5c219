package scanner

import (
	"sync"

	"github.com/xelth-com/drawerscan/internal/models"
	"github.com/xelth-com/drawerscan/internal/utils"
)

// TrackResult is the outcome of one RecordScan call
type TrackResult struct {
	Status   models.ScanStatus // StatusOK or StatusFull
	Current  int
	Capacity int
}

// FillTracker owns per-flight, per-drawer counts. A count never exceeds the
// drawer's registered capacity and is never decremented.
type FillTracker struct {
	registry *Registry

	mu     sync.RWMutex
	counts map[string]map[string]int // flight -> drawer -> count
}

// NewFillTracker creates an empty tracker bound to a registry
func NewFillTracker(registry *Registry) *FillTracker {
	return &FillTracker{
		registry: registry,
		counts:   make(map[string]map[string]int),
	}
}

// RecordScan adds one item to (flight, drawer) if capacity allows.
// An unregistered drawer has capacity 0 and is always reported full.
func (t *FillTracker) RecordScan(flightID, drawerID string) TrackResult {
	flight := utils.NormalizeID(flightID)
	drawer := utils.NormalizeID(drawerID)
	capacity, _ := t.registry.Capacity(drawer)

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.counts[flight][drawer]
	if current >= capacity {
		return TrackResult{Status: models.StatusFull, Current: current, Capacity: capacity}
	}

	drawers, ok := t.counts[flight]
	if !ok {
		drawers = make(map[string]int)
		t.counts[flight] = drawers
	}
	current++
	drawers[drawer] = current
	return TrackResult{Status: models.StatusOK, Current: current, Capacity: capacity}
}

// Fill returns the current count and capacity of a drawer for a flight.
// Unknown pairs report a zero count.
func (t *FillTracker) Fill(flightID, drawerID string) models.DrawerFill {
	drawer := utils.NormalizeID(drawerID)
	capacity, _ := t.registry.Capacity(drawer)

	t.mu.RLock()
	current := t.counts[utils.NormalizeID(flightID)][drawer]
	t.mu.RUnlock()

	return models.DrawerFill{Current: current, Capacity: capacity}
}

// FlightSnapshot returns a copy of the drawers touched for one flight
func (t *FillTracker) FlightSnapshot(flightID string) map[string]models.DrawerFill {
	flight := utils.NormalizeID(flightID)

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.copyFlight(t.counts[flight])
}

// Snapshot returns a copy of every flight's drawer counts
func (t *FillTracker) Snapshot() map[string]map[string]models.DrawerFill {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]map[string]models.DrawerFill, len(t.counts))
	for flight, drawers := range t.counts {
		out[flight] = t.copyFlight(drawers)
	}
	return out
}

// ResetFlight drops every count recorded for a flight. Returns false if the
// flight had no counts.
func (t *FillTracker) ResetFlight(flightID string) bool {
	flight := utils.NormalizeID(flightID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.counts[flight]; !ok {
		return false
	}
	delete(t.counts, flight)
	return true
}

func (t *FillTracker) copyFlight(drawers map[string]int) map[string]models.DrawerFill {
	out := make(map[string]models.DrawerFill, len(drawers))
	for drawer, n := range drawers {
		capacity, _ := t.registry.Capacity(drawer)
		out[drawer] = models.DrawerFill{Current: n, Capacity: capacity}
	}
	return out
}
