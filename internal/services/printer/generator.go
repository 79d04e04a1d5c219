package printer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ProductLabel is the content encoded in a product QR code. The keys match
// what the scan pipeline reads back.
type ProductLabel struct {
	DrawerID       string `json:"drawer_id"`
	FlightNumber   string `json:"flight_number"`
	TotalDrawer    int    `json:"total_drawer,omitempty"`
	DrawerCategory string `json:"drawer_category,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
}

// Validate checks the fields the scanner needs
func (l ProductLabel) Validate() error {
	if strings.TrimSpace(l.DrawerID) == "" {
		return errors.New("drawer_id is required")
	}
	if strings.TrimSpace(l.FlightNumber) == "" {
		return errors.New("flight_number is required")
	}
	if l.TotalDrawer < 0 {
		return errors.New("total_drawer must not be negative")
	}
	return nil
}

// Payload returns the indented JSON document stored in the code
func (l ProductLabel) Payload() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(l, "", "  ")
}

// EncodePayloadPNG renders the label payload as a PNG QR code of size pixels
func EncodePayloadPNG(l ProductLabel, size int) ([]byte, error) {
	payload, err := l.Payload()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(string(payload), qrcode.Medium, size)
}

// LabelSheet holds configuration for PDF generation
type LabelSheet struct {
	Labels     []ProductLabel `json:"labels"`
	Copies     int            `json:"copies"` // per label
	Cols       int            `json:"cols"`
	Rows       int            `json:"rows"`
	MarginTop  float64        `json:"marginTop"`
	MarginLeft float64        `json:"marginLeft"`
	GapX       float64        `json:"gapX"`
	GapY       float64        `json:"gapY"`
}

// ApplyDefaults fills zero layout values with a 3x7 A4 sheet
func (s *LabelSheet) ApplyDefaults() {
	if s.Cols <= 0 {
		s.Cols = 3
	}
	if s.Rows <= 0 {
		s.Rows = 7
	}
	if s.Copies <= 0 {
		s.Copies = 1
	}
	if s.MarginTop == 0 {
		s.MarginTop = 10
	}
	if s.MarginLeft == 0 {
		s.MarginLeft = 8
	}
}

// GenerateLabelsPDF creates an A4 PDF with one QR label per copy
func GenerateLabelsPDF(sheet LabelSheet) ([]byte, error) {
	sheet.ApplyDefaults()
	if len(sheet.Labels) == 0 {
		return nil, errors.New("no labels to print")
	}
	for i, l := range sheet.Labels {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	// A4 dimensions
	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(sheet.Cols-1) * sheet.GapX
	totalGapY := float64(sheet.Rows-1) * sheet.GapY
	availW := pageWidth - (sheet.MarginLeft * 2)
	availH := pageHeight - (sheet.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(sheet.Cols)
	labelH := (availH - totalGapY) / float64(sheet.Rows)
	if labelW <= 0 || labelH <= 0 {
		return nil, errors.New("margins and gaps leave no room for labels")
	}

	labelsPerPage := sheet.Cols * sheet.Rows
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}

	i := 0
	for li, label := range sheet.Labels {
		qrPng, err := EncodePayloadPNG(label, 256)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", li, err)
		}
		// One registered image per label, drawn once per copy
		imgName := fmt.Sprintf("qr_%d", li)
		pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		for c := 0; c < sheet.Copies; c++ {
			if i%labelsPerPage == 0 {
				pdf.AddPage()
			}
			indexOnPage := i % labelsPerPage
			col := indexOnPage % sheet.Cols
			row := indexOnPage / sheet.Cols

			x := sheet.MarginLeft + float64(col)*(labelW+sheet.GapX)
			y := sheet.MarginTop + float64(row)*(labelH+sheet.GapY)

			// QR centered, 70% of label height
			qrSize := labelH * 0.7
			if qrSize > labelW {
				qrSize = labelW * 0.9
			}
			qrX := x + (labelW-qrSize)/2
			qrY := y + (labelH-qrSize)/2 - 2

			pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

			pdf.SetXY(x, y+labelH-6)
			pdf.SetFontSize(8)
			pdf.CellFormat(labelW, 5, strings.ToUpper(label.DrawerID)+" / "+strings.ToUpper(label.FlightNumber), "", 0, "C", false, 0, "")

			if label.DrawerCategory != "" {
				pdf.SetXY(x, y+1)
				pdf.SetFontSize(6)
				pdf.CellFormat(labelW, 3, label.DrawerCategory, "", 0, "R", false, 0, "")
			}
			i++
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
