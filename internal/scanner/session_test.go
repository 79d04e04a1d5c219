package scanner

import "testing"

func TestFlightSessionSelect(t *testing.T) {
	var s FlightSession
	if _, ok := s.Current(); ok {
		t.Fatal("new session must have no flight")
	}
	if got := s.Select(" lak345 "); got != "LAK345" {
		t.Errorf("Select = %q", got)
	}
	if f, ok := s.Current(); !ok || f != "LAK345" {
		t.Errorf("Current = %q, %v", f, ok)
	}
	s.Select("   ")
	if _, ok := s.Current(); ok {
		t.Error("blank selection should leave no flight active")
	}
}
