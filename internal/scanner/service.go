package scanner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/models"
	"github.com/xelth-com/drawerscan/internal/utils"
)

// Outcome messages
const (
	msgMalformed     = "payload is not valid structured data"
	msgInvalidDrawer = "Drawer inválido: %s"
	msgNoFlight      = "select a flight first"
	msgMissingFlight = "payload has no valid flight identifier"
	msgMismatch      = "wrong flight: %s ≠ %s"
	msgAdded         = "product added to %s (%d/%d)"
	msgFull          = "%s full (%d/%d)"
)

// Observer receives every published outcome. Implementations must not block:
// they are called while the pipeline is serialised.
type Observer interface {
	OnScanOutcome(models.ScanOutcome)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(models.ScanOutcome)

func (f ObserverFunc) OnScanOutcome(o models.ScanOutcome) { f(o) }

// Options configures a Service
type Options struct {
	Drawers     map[string]int
	DedupWindow time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

// Service owns the scanning state and runs the scan pipeline:
// parse -> dedup -> drawer check -> flight checks -> fill update -> publish.
type Service struct {
	registry *Registry
	dedup    *utils.Deduplicator
	session  FlightSession
	tracker  *FillTracker
	results  *ResultStore
	now      func() time.Time
	log      *zap.Logger

	// mu serialises scan processing so one payload is fully applied before the next
	mu        sync.Mutex
	observers []Observer
}

// NewService builds the scanning core from a static drawer table
func NewService(opts Options) (*Service, error) {
	registry, err := NewRegistry(opts.Drawers)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		registry: registry,
		dedup:    utils.NewDeduplicator(opts.DedupWindow),
		tracker:  NewFillTracker(registry),
		results:  NewResultStore(),
		now:      now,
		log:      log,
	}, nil
}

// Subscribe registers an observer for published outcomes
func (s *Service) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Process runs one decoded payload through the pipeline. The bool is false
// when the payload was suppressed as a repeat read; the last result is then
// left untouched.
func (s *Service) Process(raw string) (models.ScanOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	active, _ := s.session.Current()

	payload, err := ParsePayload(raw)
	if err != nil {
		out := s.outcome(now, active, "", nil, models.StatusError, ErrMalformedPayload, msgMalformed)
		s.publish(out)
		return out, true
	}

	if !s.dedup.ShouldProcess(raw, now) {
		s.log.Debug("duplicate scan suppressed", zap.String("drawer", payload.DrawerID))
		return s.results.Get(), false
	}

	drawer := payload.DrawerID
	if drawer == "" || !s.registry.Has(drawer) {
		shown := drawer
		if shown == "" {
			shown = "N/A"
		}
		out := s.outcome(now, active, drawer, payload.Data, models.StatusError, ErrUnknownDrawer, fmt.Sprintf(msgInvalidDrawer, shown))
		s.publish(out)
		return out, true
	}

	var out models.ScanOutcome
	switch {
	case active == "":
		out = s.outcome(now, active, drawer, payload.Data, models.StatusError, ErrNoActiveFlight, msgNoFlight)
	case payload.FlightID == "":
		out = s.outcome(now, active, drawer, payload.Data, models.StatusError, ErrMissingFlight, msgMissingFlight)
	case payload.FlightID != active:
		out = s.outcome(now, active, drawer, payload.Data, models.StatusFlightError, ErrFlightMismatch,
			fmt.Sprintf(msgMismatch, payload.FlightID, active))
	default:
		res := s.tracker.RecordScan(active, drawer)
		if res.Status == models.StatusOK {
			out = s.outcome(now, active, drawer, payload.Data, models.StatusOK, nil,
				fmt.Sprintf(msgAdded, drawer, res.Current, res.Capacity))
		} else {
			out = s.outcome(now, active, drawer, payload.Data, models.StatusFull, ErrDrawerFull,
				fmt.Sprintf(msgFull, drawer, res.Current, res.Capacity))
		}
	}

	s.publish(out)
	return out, true
}

// outcome assembles a result; counts are read from the active flight's fill
// state when both the flight and the drawer are known.
func (s *Service) outcome(now time.Time, active, drawer string, data map[string]interface{}, status models.ScanStatus, reason error, msg string) models.ScanOutcome {
	out := models.ScanOutcome{
		ScanID:       uuid.NewString(),
		QRData:       data,
		Message:      msg,
		Status:       status,
		Reason:       reasonOf(reason),
		Drawer:       drawer,
		ActiveFlight: models.FlightPtr(active),
		ScannedAt:    &now,
	}
	if active != "" && s.registry.Has(drawer) {
		fill := s.tracker.Fill(active, drawer)
		out.Current = fill.Current
		out.Capacity = fill.Capacity
	}
	return out
}

func (s *Service) publish(out models.ScanOutcome) {
	s.results.Publish(out)

	fields := []zap.Field{
		zap.String("status", string(out.Status)),
		zap.String("drawer", out.Drawer),
		zap.Int("current", out.Current),
		zap.Int("capacity", out.Capacity),
	}
	if out.ActiveFlight != nil {
		fields = append(fields, zap.String("flight", *out.ActiveFlight))
	}
	if out.Status == models.StatusOK {
		s.log.Info(out.Message, fields...)
	} else {
		s.log.Warn(out.Message, append(fields, zap.String("reason", out.Reason))...)
	}

	for _, o := range s.observers {
		o.OnScanOutcome(out)
	}
}

// SelectFlight replaces the active flight; prior counts are kept
func (s *Service) SelectFlight(flightID string) string {
	id := s.session.Select(flightID)
	s.log.Info("flight selected", zap.String("flight", id))
	return id
}

// ActiveFlight returns the selected flight, if any
func (s *Service) ActiveFlight() (string, bool) {
	return s.session.Current()
}

// LastResult returns the most recently published outcome
func (s *Service) LastResult() models.ScanOutcome {
	return s.results.Get()
}

// ClearLastResult resets the last result to waiting. Fill counts and the
// active flight are untouched.
func (s *Service) ClearLastResult() models.ScanOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, _ := s.session.Current()
	cleared := s.results.Clear(active)
	for _, o := range s.observers {
		o.OnScanOutcome(cleared)
	}
	return cleared
}

// FillSnapshot returns counts for every flight
func (s *Service) FillSnapshot() map[string]map[string]models.DrawerFill {
	return s.tracker.Snapshot()
}

// FlightFill returns counts for one flight
func (s *Service) FlightFill(flightID string) map[string]models.DrawerFill {
	return s.tracker.FlightSnapshot(flightID)
}

// ResetFlight clears every count of one flight and forgets the last payload,
// so a label counted before the reset is accepted again immediately.
func (s *Service) ResetFlight(flightID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.tracker.ResetFlight(flightID)
	if ok {
		s.dedup.Reset()
		s.log.Info("flight counts reset", zap.String("flight", utils.NormalizeID(flightID)))
	}
	return ok
}

// DedupWindow returns how long an identical payload is treated as a repeat read
func (s *Service) DedupWindow() time.Duration {
	return s.dedup.Window()
}

// Registry exposes the drawer registry
func (s *Service) Registry() *Registry {
	return s.registry
}
