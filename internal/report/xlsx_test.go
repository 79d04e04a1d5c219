package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xelth-com/drawerscan/internal/models"
)

func TestWriteFillXLSX(t *testing.T) {
	snapshot := map[string]map[string]models.DrawerFill{
		"LAK345": {
			"DRW_003": {Current: 4, Capacity: 10},
			"DRW_001": {Current: 2, Capacity: 2},
		},
		"DL045": {
			"DRW_002": {Current: 1, Capacity: 2},
		},
	}

	var buf bytes.Buffer
	if err := WriteFillXLSX(&buf, snapshot, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("WriteFillXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Flight", "Drawer", "Current", "Capacity", "Status"},
		{"DL045", "DRW_002", "1", "2", "open"},
		{"LAK345", "DRW_001", "2", "2", "full"},
		{"LAK345", "DRW_003", "4", "10", "open"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("cell (%d,%d) = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestWriteFillXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFillXLSX(&buf, nil, time.Now()); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows(sheetName)
	if len(rows) != 1 {
		t.Errorf("rows = %v", rows)
	}
}

func TestRowStatusZeroCapacity(t *testing.T) {
	if (Row{Capacity: 0}).Status() != "full" {
		t.Error("zero capacity drawer is always full")
	}
}
