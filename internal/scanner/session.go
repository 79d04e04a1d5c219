package scanner

import (
	"sync"

	"github.com/xelth-com/drawerscan/internal/utils"
)

// FlightSession holds the single active flight scans are validated against
type FlightSession struct {
	mu     sync.RWMutex
	active string
}

// Select normalises and replaces the active flight unconditionally.
// A blank id leaves no flight selected. Returns the stored value.
func (s *FlightSession) Select(flightID string) string {
	id := utils.NormalizeID(flightID)
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	return id
}

// Current returns the active flight, if any
func (s *FlightSession) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}
