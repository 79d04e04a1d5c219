package models

import "time"

// ScanStatus is the terminal state of one processed code
type ScanStatus string

const (
	StatusWaiting     ScanStatus = "waiting"
	StatusOK          ScanStatus = "ok"
	StatusError       ScanStatus = "error"
	StatusFull        ScanStatus = "full"
	StatusFlightError ScanStatus = "flight_error"
)

// WaitingMessage is shown before the first scan and after a clear
const WaitingMessage = "Waiting for QR..."

// ScanOutcome is the unit published to the last-result store and pushed to
// dashboards. Field names keep the scanner page's wire format.
type ScanOutcome struct {
	ScanID       string                 `json:"scan_id,omitempty"`
	QRData       map[string]interface{} `json:"qr_data"`
	Message      string                 `json:"message"`
	Status       ScanStatus             `json:"status"`
	Reason       string                 `json:"reason,omitempty"`
	Drawer       string                 `json:"drawer"`
	Current      int                    `json:"current"`
	Capacity     int                    `json:"capacity"`
	ActiveFlight *string                `json:"vuelo_actual"`
	ScannedAt    *time.Time             `json:"scanned_at,omitempty"`
}

// WaitingOutcome builds the initial/cleared outcome for the given active flight
func WaitingOutcome(activeFlight string) ScanOutcome {
	return ScanOutcome{
		Message:      WaitingMessage,
		Status:       StatusWaiting,
		ActiveFlight: FlightPtr(activeFlight),
	}
}

// FlightPtr returns nil for an unset flight so it serialises as null
func FlightPtr(flight string) *string {
	if flight == "" {
		return nil
	}
	return &flight
}

// DrawerFill is the count of one drawer for one flight
type DrawerFill struct {
	Current  int `json:"current"`
	Capacity int `json:"capacity"`
}

// Full reports whether the drawer reached its capacity
func (f DrawerFill) Full() bool {
	return f.Current >= f.Capacity
}
