package utils

import (
	"sync"
	"time"
)

// DefaultDedupWindow is how long an identical payload is treated as a repeat read
const DefaultDedupWindow = 2 * time.Second

// Deduplicator remembers only the most recently accepted payload.
// A payload different from the previous one always passes, even if it was
// seen (and suppressed) earlier.
type Deduplicator struct {
	window time.Duration

	mu       sync.Mutex
	last     string
	lastSeen time.Time
	seen     bool
}

// NewDeduplicator creates a single-slot deduplicator. A non-positive window
// falls back to DefaultDedupWindow.
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{window: window}
}

// Window returns the configured suppression window
func (d *Deduplicator) Window() time.Duration {
	return d.window
}

// ShouldProcess reports whether payload should be processed at time now.
// Suppressed calls do not refresh the remembered timestamp.
func (d *Deduplicator) ShouldProcess(payload string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen && payload == d.last && now.Sub(d.lastSeen) < d.window {
		return false
	}

	d.last = payload
	d.lastSeen = now
	d.seen = true
	return true
}

// Reset forgets the remembered payload
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	d.last = ""
	d.lastSeen = time.Time{}
	d.seen = false
	d.mu.Unlock()
}
