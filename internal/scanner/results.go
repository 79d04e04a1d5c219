package scanner

import (
	"sync/atomic"

	"github.com/xelth-com/drawerscan/internal/models"
)

// ResultStore holds the most recently published outcome. Reads never block.
type ResultStore struct {
	last atomic.Pointer[models.ScanOutcome]
}

// NewResultStore starts in the waiting state with no active flight
func NewResultStore() *ResultStore {
	s := &ResultStore{}
	initial := models.WaitingOutcome("")
	s.last.Store(&initial)
	return s
}

// Get returns a copy of the last published outcome
func (s *ResultStore) Get() models.ScanOutcome {
	return *s.last.Load()
}

// Publish overwrites the last outcome
func (s *ResultStore) Publish(o models.ScanOutcome) {
	s.last.Store(&o)
}

// Clear resets to the waiting outcome, keeping the given active flight
func (s *ResultStore) Clear(activeFlight string) models.ScanOutcome {
	cleared := models.WaitingOutcome(activeFlight)
	s.last.Store(&cleared)
	return cleared
}
