// Package report renders fill counts as spreadsheets.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xelth-com/drawerscan/internal/models"
)

const sheetName = "Conteo"

var header = []interface{}{"Flight", "Drawer", "Current", "Capacity", "Status"}

// Row is one drawer line of the fill report
type Row struct {
	Flight   string
	Drawer   string
	Current  int
	Capacity int
}

// Status is "full" at capacity, "open" otherwise
func (r Row) Status() string {
	if (models.DrawerFill{Current: r.Current, Capacity: r.Capacity}).Full() {
		return "full"
	}
	return "open"
}

// Rows flattens a snapshot, sorted by flight then drawer
func Rows(snapshot map[string]map[string]models.DrawerFill) []Row {
	var rows []Row
	for flight, drawers := range snapshot {
		for drawer, fill := range drawers {
			rows = append(rows, Row{Flight: flight, Drawer: drawer, Current: fill.Current, Capacity: fill.Capacity})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Flight != rows[j].Flight {
			return rows[i].Flight < rows[j].Flight
		}
		return rows[i].Drawer < rows[j].Drawer
	})
	return rows
}

// WriteFillXLSX writes the snapshot as a single-sheet workbook
func WriteFillXLSX(w io.Writer, snapshot map[string]map[string]models.DrawerFill, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", bold); err != nil {
		return err
	}

	for i, r := range Rows(snapshot) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Flight, r.Drawer, r.Current, r.Capacity, r.Status()}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 14); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Drawer fill report",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
