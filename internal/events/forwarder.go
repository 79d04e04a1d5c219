package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/models"
)

const publishTimeout = 5 * time.Second

// Message is the broker payload for one processed scan
type Message struct {
	Event   string             `json:"event"`
	Outcome models.ScanOutcome `json:"outcome"`
}

// Forwarder relays scan outcomes to a Publisher off the scan path.
// Outcomes are dropped when the queue is full.
type Forwarder struct {
	pub   Publisher
	queue chan models.ScanOutcome
	log   *zap.Logger
}

// NewForwarder creates a forwarder with a queue of the given size
func NewForwarder(pub Publisher, size int, log *zap.Logger) *Forwarder {
	if size <= 0 {
		size = 256
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Forwarder{pub: pub, queue: make(chan models.ScanOutcome, size), log: log.With(zap.String("component", "events"))}
}

// OnScanOutcome queues a processed outcome. Waiting placeholders are not forwarded.
func (f *Forwarder) OnScanOutcome(outcome models.ScanOutcome) {
	if outcome.Status == models.StatusWaiting {
		return
	}
	select {
	case f.queue <- outcome:
	default:
		f.log.Warn("event queue full, outcome dropped", zap.String("scan_id", outcome.ScanID))
	}
}

// Run publishes queued outcomes until ctx is cancelled, then closes the publisher
func (f *Forwarder) Run(ctx context.Context) {
	defer func() {
		if err := f.pub.Close(); err != nil {
			f.log.Warn("close publisher", zap.Error(err))
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case outcome := <-f.queue:
			f.publish(ctx, outcome)
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, outcome models.ScanOutcome) {
	payload, err := json.Marshal(Message{Event: "scan_result", Outcome: outcome})
	if err != nil {
		f.log.Error("marshal outcome", zap.Error(err))
		return
	}
	key := outcome.Drawer
	if key == "" {
		key = "unknown"
	}

	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := f.pub.Publish(pctx, key, payload); err != nil {
		f.log.Warn("publish failed", zap.String("scan_id", outcome.ScanID), zap.Error(err))
	}
}
