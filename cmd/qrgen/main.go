// Command qrgen renders product QR labels as a PNG or a printable PDF sheet.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xelth-com/drawerscan/internal/services/printer"
)

func main() {
	var (
		label  printer.ProductLabel
		out    = flag.String("out", "qr_producto.png", "output file (.png or .pdf)")
		size   = flag.Int("size", 512, "PNG size in pixels")
		copies = flag.Int("copies", 21, "labels per PDF sheet")
	)
	flag.StringVar(&label.DrawerID, "drawer", "DRW_001", "drawer id")
	flag.StringVar(&label.FlightNumber, "flight", "LAK345", "flight number")
	flag.IntVar(&label.TotalDrawer, "total", 8, "drawer capacity printed on the label")
	flag.StringVar(&label.DrawerCategory, "category", "", "drawer category")
	flag.StringVar(&label.CustomerName, "customer", "", "customer name")
	flag.StringVar(&label.ExpiryDate, "expiry", "", "expiry date (YYYY-MM-DD)")
	flag.Parse()

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(strings.ToLower(*out), ".pdf") {
		data, err = printer.GenerateLabelsPDF(printer.LabelSheet{Labels: []printer.ProductLabel{label}, Copies: *copies})
	} else {
		data, err = printer.EncodePayloadPNG(label, *size)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "qrgen: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "qrgen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("QR written to %s\n", *out)
}
