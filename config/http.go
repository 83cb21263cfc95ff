package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the footprint API server.
type HTTPConfig struct {
	Address string `json:"address"`
	// Token, when set, is required as a bearer token on every route.
	Token              string `json:"token"`
	ReadTimeoutSeconds int    `json:"read_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
}

// Validate checks the timeout.
func (c HTTPConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 {
		return fmt.Errorf("http: read_timeout_seconds must not be negative")
	}
	return nil
}

// ReadTimeout returns the server read timeout.
func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
