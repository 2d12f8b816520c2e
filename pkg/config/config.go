package config

import "time"

// Config holds the daemon settings. There is deliberately no config file:
// values come from command-line flags at startup and may be adjusted at
// runtime through the control API, so implementations must be safe for
// concurrent use.
type Config interface {
	CheckInterval() time.Duration
	Threshold() int
	ImagePath() string

	SetCheckInterval(time.Duration) error
	SetThreshold(int) error
}
