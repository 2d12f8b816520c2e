// Package power answers one question: how charged is the host battery and is
// mains power connected. It is a pure query layer; nothing in here has side
// effects.
package power

import "errors"

// ErrUnavailable is returned when neither the battery interface nor the
// fallback power-status probe could be queried. Callers should treat it as
// "skip this sample", not as fatal.
var ErrUnavailable = errors.New("power status unavailable")

// Status is one sample of the host power state. It is produced fresh on
// every call and never stored.
type Status struct {
	// Percent is the battery charge, 0-100.
	Percent int `json:"percent"`
	// ACOnline reports whether the host is connected to mains power,
	// regardless of whether the battery is actually charging.
	ACOnline bool `json:"acOnline"`
}

// Provider samples the host power state.
type Provider interface {
	Sample() (Status, error)
}
