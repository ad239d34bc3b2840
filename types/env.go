package types

import "time"

// ------------------------
// Temperature & humidity
// ------------------------

// Reading is one successful sensor measurement. A new measurement supersedes
// it; it is never mutated. The zero value means "no reading yet".
type Reading struct {
	TemperatureC int       `json:"temperature_c"`
	HumidityPct  int       `json:"humidity_pct"`
	At           time.Time `json:"-"`
}

// Valid reports whether r came from a measurement.
func (r Reading) Valid() bool { return !r.At.IsZero() }

// ------------------------
// Button
// ------------------------

// ButtonEvent is published once per accepted press.
type ButtonEvent struct {
	At time.Time `json:"-"`
}
