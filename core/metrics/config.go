package metrics

import (
	"fmt"

	"github.com/kilianp07/footprint/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics when non-empty and a prometheus sink is configured.
	PrometheusAddr string `json:"prometheus_addr"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		for _, s := range c.Sinks {
			if s.Type == "prometheus" {
				c.PrometheusAddr = ":2112"
				break
			}
		}
	}
}

// Validate rejects sinks without a type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
