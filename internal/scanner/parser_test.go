package scanner

import (
	"errors"
	"testing"
)

func TestParsePayloadAliases(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		drawer string
		flight string
	}{
		{"canonical", `{"drawer_id":"DRW_001","flight_number":"LAK345"}`, "DRW_001", "LAK345"},
		{"short keys", `{"drawer":" drw_002 ","flight":"dl045"}`, "DRW_002", "DL045"},
		{"spanish flight key", `{"drawer_id":"DRW_003","vuelo":"af123"}`, "DRW_003", "AF123"},
		{"drawer_id wins over drawer", `{"drawer_id":"A","drawer":"B"}`, "A", ""},
		{"empty alias skipped", `{"drawer_id":"","drawer":"B","flight_number":"","flight_no":"ba713"}`, "B", "BA713"},
		{"blank alias wins", `{"drawer_id":"  ","drawer":"DRW_001","flight_number":" ","flight_no":"ba713"}`, "", ""},
		{"priority order", `{"vuelo_id":"X1","flightNumber":"X2"}`, "", "X2"},
		{"numeric flight", `{"drawer_id":"DRW_001","flight_id":345}`, "DRW_001", "345"},
		{"null and object skipped", `{"drawer_id":null,"drawer":{"id":"Z"},"flight":true}`, "", ""},
		{"multi-line label", "{\n  \"drawer_id\": \"DRW_001\",\n  \"flight_number\": \"LAK345\",\n  \"total_drawer\": 8\n}", "DRW_001", "LAK345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload(tt.raw)
			if err != nil {
				t.Fatalf("ParsePayload: %v", err)
			}
			if p.DrawerID != tt.drawer {
				t.Errorf("drawer = %q, want %q", p.DrawerID, tt.drawer)
			}
			if p.FlightID != tt.flight {
				t.Errorf("flight = %q, want %q", p.FlightID, tt.flight)
			}
			if p.Data == nil {
				t.Error("data must echo the decoded object")
			}
		})
	}
}

func TestParsePayloadRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{
		"", "hello", "123", `"DRW_001"`, "[]", "null", `{"a":1} trailing`, `{"a":`,
		`{"drawer_id":"DRW_001","flight_number":"LAK345"}}`,
		`{"drawer_id":"DRW_001","flight_number":"LAK345"}]`,
		`{"a":1}{"b":2}`,
	} {
		if _, err := ParsePayload(raw); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("ParsePayload(%q) err = %v, want ErrMalformedPayload", raw, err)
		}
	}
}
