// Package types contains common types used across the application
package types

import (
	"bytes"
	"encoding/json"
	"math"
)

// Float is a float64 that encodes NaN and infinities as JSON null.
// Missing CSV cells are NaN in the domain and must survive the API.
type Float float64

var null = []byte("null") //nolint:gochecknoglobals // constant literal

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null, nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), null) {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Valid reports whether f holds a finite number.
func (f Float) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FloatPtr converts an optional float64.
func FloatPtr(v *float64) *Float {
	if v == nil {
		return nil
	}
	f := Float(*v)
	return &f
}

// CountryEntry is one country's standing in a report year.
type CountryEntry struct {
	Country string `json:"country"`
	Rank    int    `json:"rank"`
	Score   Float  `json:"score"`
	Year    int    `json:"year,omitempty"`
}
