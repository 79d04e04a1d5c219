package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xelth-com/drawerscan/internal/utils"
)

// Key aliases checked in priority order. The first alias holding a non-empty
// string or number wins and is normalised afterwards, so a blank value does
// not fall through to the next alias.
var (
	DrawerKeys = []string{"drawer_id", "drawer"}
	FlightKeys = []string{"flight_number", "flight", "flight_no", "flightNumber", "flight_id", "vuelo", "vuelo_id"}
)

// Payload is one decoded code interpreted as a JSON object
type Payload struct {
	Raw      string
	Data     map[string]interface{}
	DrawerID string // normalised, empty when absent
	FlightID string // normalised, empty when absent
}

// ParsePayload interprets a raw decoded string. Only a JSON object is accepted;
// a missing drawer or flight is not a parse failure.
func ParsePayload(raw string) (*Payload, error) {
	cleaned := utils.SanitizePayload(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()

	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if data == nil {
		// literal null decodes into a nil map
		return nil, fmt.Errorf("%w: not an object", ErrMalformedPayload)
	}
	// Only whitespace may follow the object
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedPayload)
	}

	return &Payload{
		Raw:      raw,
		Data:     data,
		DrawerID: lookupID(data, DrawerKeys),
		FlightID: lookupID(data, FlightKeys),
	}, nil
}

// lookupID normalises the first non-empty string-like value under keys
func lookupID(data map[string]interface{}, keys []string) string {
	for _, k := range keys {
		var s string
		switch val := data[k].(type) {
		case string:
			s = val
		case json.Number:
			s = val.String()
		default:
			continue
		}
		if s != "" {
			return utils.NormalizeID(s)
		}
	}
	return ""
}
