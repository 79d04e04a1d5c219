package scanner

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xelth-com/drawerscan/internal/models"
)

const drw001Payload = `{"drawer_id":"DRW_001","flight_number":"LAK345"}`

// fakeClock is advanced manually by tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC)}
	svc, err := NewService(Options{
		Drawers: map[string]int{"DRW_001": 2, "DRW_003": 10},
		Now:     clock.Now,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, clock
}

func TestServiceReferenceScenario(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")

	out, processed := svc.Process(drw001Payload)
	if !processed || out.Status != models.StatusOK || out.Current != 1 || out.Capacity != 2 {
		t.Fatalf("first scan: got %+v processed=%v", out, processed)
	}
	firstID := out.ScanID

	clock.Advance(time.Second)
	if _, processed := svc.Process(drw001Payload); processed {
		t.Fatal("repeat within 1s should be ignored")
	}
	if svc.LastResult().ScanID != firstID {
		t.Error("ignored repeat must not change the last result")
	}

	clock.Advance(3 * time.Second)
	out, _ = svc.Process(drw001Payload)
	if out.Status != models.StatusOK || out.Current != 2 || out.Capacity != 2 {
		t.Fatalf("second accepted scan: got %+v", out)
	}

	clock.Advance(3 * time.Second)
	out, _ = svc.Process(drw001Payload)
	if out.Status != models.StatusFull || out.Current != 2 || out.Capacity != 2 {
		t.Fatalf("third accepted scan: got %+v", out)
	}
	if out.Reason != "drawer_full" {
		t.Errorf("reason = %q", out.Reason)
	}

	out, _ = svc.Process(`{"drawer_id":"DRW_999","flight_number":"LAK345"}`)
	if out.Status != models.StatusError || out.Message != "Drawer inválido: DRW_999" {
		t.Fatalf("unknown drawer: got %+v", out)
	}
	if out.Current != 0 || out.Capacity != 0 {
		t.Errorf("unknown drawer counts = %d/%d, want 0/0", out.Current, out.Capacity)
	}

	out, _ = svc.Process(`{"drawer_id":"DRW_001","flight_number":"DL045"}`)
	if out.Status != models.StatusFlightError {
		t.Fatalf("mismatch: got %+v", out)
	}
	if out.Current != 2 || out.Capacity != 2 {
		t.Errorf("mismatch counts = %d/%d, want unchanged 2/2", out.Current, out.Capacity)
	}
	if !strings.Contains(out.Message, "DL045") || !strings.Contains(out.Message, "LAK345") {
		t.Errorf("mismatch message should name both flights: %q", out.Message)
	}
}

func TestServiceCountReachesCapacityThenStops(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("AF123")

	payload := `{"drawer":"drw_003","flight":"af123"}`
	for i := 1; i <= 12; i++ {
		out, _ := svc.Process(payload)
		clock.Advance(3 * time.Second)

		want := i
		status := models.StatusOK
		if i > 10 {
			want = 10
			status = models.StatusFull
		}
		if out.Current != want || out.Status != status {
			t.Fatalf("scan %d: got %s %d/%d, want %s %d", i, out.Status, out.Current, out.Capacity, status, want)
		}
	}
}

func TestServiceFlightMismatchNeverMutates(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")

	for _, p := range []string{
		`{"drawer_id":"DRW_001","flight_number":"DL045"}`,
		`{"drawer_id":"DRW_003","vuelo":"BA678"}`,
	} {
		svc.Process(p)
		clock.Advance(3 * time.Second)
	}

	if snap := svc.FillSnapshot(); len(snap) != 0 {
		t.Errorf("mismatched flights mutated fill state: %+v", snap)
	}
}

func TestServiceUnknownDrawerNeverMutates(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SelectFlight("LAK345")

	out, _ := svc.Process(`{"drawer_id":"","flight_number":"LAK345"}`)
	if out.Status != models.StatusError || out.Message != "Drawer inválido: N/A" {
		t.Fatalf("empty drawer: got %+v", out)
	}
	out, _ = svc.Process(`{"flight_number":"LAK345"}`)
	if out.Reason != "unknown_drawer" {
		t.Fatalf("missing drawer key: got %+v", out)
	}
	if len(svc.FillSnapshot()) != 0 {
		t.Error("unknown drawer mutated fill state")
	}
}

func TestServiceErrorOrdering(t *testing.T) {
	tests := []struct {
		name    string
		flight  string
		payload string
		status  models.ScanStatus
		message string
	}{
		{"malformed", "LAK345", `not json`, models.StatusError, "payload is not valid structured data"},
		{"array", "LAK345", `[1,2]`, models.StatusError, "payload is not valid structured data"},
		{"bad drawer before no flight", "", `{"drawer_id":"X"}`, models.StatusError, "Drawer inválido: X"},
		{"no flight", "", drw001Payload, models.StatusError, "select a flight first"},
		{"missing flight", "LAK345", `{"drawer_id":"DRW_001"}`, models.StatusError, "payload has no valid flight identifier"},
		{"null flight", "LAK345", `{"drawer_id":"DRW_001","flight_number":null}`, models.StatusError, "payload has no valid flight identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			if tt.flight != "" {
				svc.SelectFlight(tt.flight)
			}
			out, processed := svc.Process(tt.payload)
			if !processed {
				t.Fatal("expected payload to be processed")
			}
			if out.Status != tt.status || out.Message != tt.message {
				t.Errorf("got %s %q, want %s %q", out.Status, out.Message, tt.status, tt.message)
			}
			if tt.name == "malformed" && out.QRData != nil {
				t.Error("malformed payload must not echo qr_data")
			}
		})
	}
}

func TestServiceMissingFlightReportsActiveCounts(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")
	svc.Process(drw001Payload)
	clock.Advance(3 * time.Second)

	out, _ := svc.Process(`{"drawer_id":"DRW_001"}`)
	if out.Current != 1 || out.Capacity != 2 {
		t.Errorf("got %d/%d, want 1/2", out.Current, out.Capacity)
	}
	if out.ActiveFlight == nil || *out.ActiveFlight != "LAK345" {
		t.Errorf("active flight = %v", out.ActiveFlight)
	}
}

func TestServiceClearKeepsFlightAndCounts(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SelectFlight("lak345")
	svc.Process(drw001Payload)

	cleared := svc.ClearLastResult()
	if cleared.Status != models.StatusWaiting || cleared.QRData != nil || cleared.Current != 0 || cleared.Capacity != 0 {
		t.Fatalf("cleared = %+v", cleared)
	}
	if cleared.ActiveFlight == nil || *cleared.ActiveFlight != "LAK345" {
		t.Errorf("clear must keep the active flight, got %v", cleared.ActiveFlight)
	}
	if got := svc.FlightFill("LAK345")["DRW_001"].Current; got != 1 {
		t.Errorf("clear must not reset counts, got %d", got)
	}
}

func TestServiceSelectFlightKeepsOtherCounts(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")
	svc.Process(drw001Payload)
	clock.Advance(3 * time.Second)

	svc.SelectFlight("DL045")
	out, _ := svc.Process(`{"drawer_id":"DRW_001","flight_number":"DL045"}`)
	if out.Current != 1 {
		t.Fatalf("DL045 count = %d, want 1", out.Current)
	}

	snap := svc.FillSnapshot()
	if snap["LAK345"]["DRW_001"].Current != 1 || snap["DL045"]["DRW_001"].Current != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestServiceMalformedTrailingDataNeverMutates(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")

	for _, raw := range []string{drw001Payload + "}", drw001Payload + "]"} {
		clock.Advance(3 * time.Second)
		out, processed := svc.Process(raw)
		if !processed || out.Status != models.StatusError || out.Reason != "malformed_payload" {
			t.Errorf("Process(%q) = %+v", raw, out)
		}
	}
	if len(svc.FillSnapshot()) != 0 {
		t.Error("malformed payload mutated fill state")
	}
}

func TestServiceBlankDrawerAliasIsInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SelectFlight("LAK345")

	out, _ := svc.Process(`{"drawer_id":"  ","drawer":"DRW_001","flight_number":"LAK345"}`)
	if out.Status != models.StatusError || out.Message != "Drawer inválido: N/A" {
		t.Fatalf("got %+v", out)
	}
	if len(svc.FillSnapshot()) != 0 {
		t.Error("blank drawer alias mutated fill state")
	}
}

func TestServiceResetFlight(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SelectFlight("LAK345")
	svc.Process(drw001Payload)

	if !svc.ResetFlight("lak345") {
		t.Fatal("expected reset to report existing counts")
	}
	if svc.ResetFlight("LAK345") {
		t.Error("second reset should report nothing to clear")
	}
	if len(svc.FlightFill("LAK345")) != 0 {
		t.Error("counts survived reset")
	}

	// The label just counted may be scanned again right away after a reset
	out, processed := svc.Process(drw001Payload)
	if !processed || out.Status != models.StatusOK || out.Current != 1 {
		t.Errorf("rescan after reset = %+v, processed = %v", out, processed)
	}
	if svc.DedupWindow() != 2*time.Second {
		t.Errorf("DedupWindow = %v", svc.DedupWindow())
	}
}

func TestServiceNotifiesObservers(t *testing.T) {
	svc, clock := newTestService(t)
	svc.SelectFlight("LAK345")

	var got []models.ScanStatus
	svc.Subscribe(ObserverFunc(func(o models.ScanOutcome) { got = append(got, o.Status) }))

	svc.Process(drw001Payload)
	svc.Process(drw001Payload) // suppressed
	clock.Advance(3 * time.Second)
	svc.Process("garbage")
	svc.ClearLastResult()

	want := []models.ScanStatus{models.StatusOK, models.StatusError, models.StatusWaiting}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestServiceConcurrentScansRespectCapacity(t *testing.T) {
	svc, err := NewService(Options{Drawers: map[string]int{"DRW_004": 12}})
	if err != nil {
		t.Fatal(err)
	}
	svc.SelectFlight("EK088")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// distinct payloads so the single-slot dedup never suppresses
			svc.Process(`{"drawer_id":"DRW_004","flight_number":"EK088","n":` + strconv.Itoa(i) + `}`)
			_ = svc.LastResult()
			_ = svc.FillSnapshot()
		}(i)
	}
	wg.Wait()

	if got := svc.FlightFill("EK088")["DRW_004"].Current; got != 12 {
		t.Errorf("count = %d, want capped at 12", got)
	}
}

func TestNewServiceRejectsNegativeCapacity(t *testing.T) {
	if _, err := NewService(Options{Drawers: map[string]int{"DRW_001": -1}}); err == nil {
		t.Error("expected error for negative capacity")
	}
}
