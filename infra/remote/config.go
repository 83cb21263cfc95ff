package remote

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kilianp07/footprint/auth"
)

// Config points the engine at a remote calculation service. An empty URL
// disables the remote attempt.
type Config struct {
	URL            string    `json:"url"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Token          string    `json:"token"`
	OAuth          auth.Conf `json:"oauth"`
	// MaxBodyBytes caps how much of a response is read.
	MaxBodyBytes int64 `json:"max_body_bytes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 5
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// Validate checks the URL when one is set.
func (c Config) Validate() error {
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("remote: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("remote: timeout_seconds must not be negative")
	}
	return nil
}

// Enabled reports whether a remote URL is configured.
func (c Config) Enabled() bool { return c.URL != "" }

// Timeout returns the bound applied to one remote attempt.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
