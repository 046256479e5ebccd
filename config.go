package otoolkit

import "time"

// Config holds configuration for the authorization engine.
type Config struct {
	// RequestTimeout bounds store fetches made during a permission check.
	// Defaults to 30 seconds; zero disables the bound.
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
	}
}
