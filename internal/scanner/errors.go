package scanner

import "errors"

// Scan rejection reasons. None of these are fatal: each one degrades to a
// ScanOutcome with status error, flight_error or full.
var (
	ErrMalformedPayload = errors.New("malformed_payload")
	ErrUnknownDrawer    = errors.New("unknown_drawer")
	ErrNoActiveFlight   = errors.New("no_active_flight")
	ErrMissingFlight    = errors.New("missing_flight")
	ErrFlightMismatch   = errors.New("flight_mismatch")
	ErrDrawerFull       = errors.New("drawer_full")
)

// reasonOf maps a rejection error to the outcome's reason field
func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range []error{
		ErrMalformedPayload, ErrUnknownDrawer, ErrNoActiveFlight,
		ErrMissingFlight, ErrFlightMismatch, ErrDrawerFull,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal"
}
