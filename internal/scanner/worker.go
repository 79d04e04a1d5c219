package scanner

import (
	"context"

	"go.uber.org/zap"
)

// Source delivers raw decoded payloads from a decode collaborator
type Source interface {
	Name() string
	Run(ctx context.Context, out chan<- string) error
}

// Worker feeds payloads from one or more sources into the Service one at a
// time. It is the single producer of scan state.
type Worker struct {
	svc      *Service
	payloads chan string
	log      *zap.Logger
}

// NewWorker creates a worker with a bounded inbound queue
func NewWorker(svc *Service, queueSize int, log *zap.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		svc:      svc,
		payloads: make(chan string, queueSize),
		log:      log,
	}
}

// Submit enqueues a payload. It blocks while the queue is full, until ctx ends.
func (w *Worker) Submit(ctx context.Context, payload string) error {
	select {
	case w.payloads <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attach starts a source in the background, forwarding its payloads to the worker
func (w *Worker) Attach(ctx context.Context, src Source) {
	go func() {
		w.log.Info("scan source started", zap.String("source", src.Name()))
		if err := src.Run(ctx, w.payloads); err != nil && ctx.Err() == nil {
			w.log.Error("scan source stopped", zap.String("source", src.Name()), zap.Error(err))
			return
		}
		w.log.Info("scan source stopped", zap.String("source", src.Name()))
	}()
}

// Run processes queued payloads until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-w.payloads:
			w.svc.Process(raw)
		}
	}
}
