package printer

import (
	"bytes"
	"testing"

	"github.com/xelth-com/drawerscan/internal/scanner"
)

var sample = ProductLabel{
	DrawerID:       "DRW_001",
	FlightNumber:   "LAK345",
	TotalDrawer:    8,
	DrawerCategory: "Snacks",
	CustomerName:   "Delta Airlines",
	ExpiryDate:     "2025-12-10",
}

func TestPayloadIsReadableByScanner(t *testing.T) {
	payload, err := sample.Payload()
	if err != nil {
		t.Fatal(err)
	}
	p, err := scanner.ParsePayload(string(payload))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.DrawerID != "DRW_001" || p.FlightID != "LAK345" {
		t.Errorf("parsed = %+v", p)
	}
	if p.Data["customer_name"] != "Delta Airlines" {
		t.Errorf("data = %v", p.Data)
	}
}

func TestEncodePayloadPNG(t *testing.T) {
	png, err := EncodePayloadPNG(sample, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestValidate(t *testing.T) {
	tests := []ProductLabel{
		{FlightNumber: "LAK345"},
		{DrawerID: "DRW_001", FlightNumber: "  "},
		{DrawerID: "DRW_001", FlightNumber: "LAK345", TotalDrawer: -1},
	}
	for _, l := range tests {
		if _, err := EncodePayloadPNG(l, 64); err == nil {
			t.Errorf("expected error for %+v", l)
		}
	}
}

func TestGenerateLabelsPDF(t *testing.T) {
	pdf, err := GenerateLabelsPDF(LabelSheet{Labels: []ProductLabel{sample, {DrawerID: "DRW_002", FlightNumber: "DL045"}}, Copies: 12})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateLabelsPDFRejects(t *testing.T) {
	if _, err := GenerateLabelsPDF(LabelSheet{}); err == nil {
		t.Error("empty sheet should fail")
	}
	if _, err := GenerateLabelsPDF(LabelSheet{Labels: []ProductLabel{{DrawerID: "X"}}}); err == nil {
		t.Error("invalid label should fail")
	}
	if _, err := GenerateLabelsPDF(LabelSheet{Labels: []ProductLabel{sample}, MarginLeft: 120}); err == nil {
		t.Error("oversized margins should fail")
	}
}

func TestApplyDefaults(t *testing.T) {
	var s LabelSheet
	s.ApplyDefaults()
	if s.Cols != 3 || s.Rows != 7 || s.Copies != 1 {
		t.Errorf("defaults = %+v", s)
	}
}
