package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/footprint/core/metrics"
	"github.com/kilianp07/footprint/infra/history"
	"github.com/kilianp07/footprint/infra/monitoring"
	"github.com/kilianp07/footprint/infra/mqtt"
	"github.com/kilianp07/footprint/infra/remote"
)

// EnvPrefix marks environment overrides; FP_REMOTE__URL sets remote.url.
const EnvPrefix = "FP_"

type Config struct {
	Remote  remote.Config     `json:"remote"`
	HTTP    HTTPConfig        `json:"http"`
	History history.Config    `json:"history"`
	Metrics metrics.Config    `json:"metrics"`
	MQTT    mqtt.Config       `json:"mqtt"`
	Sentry  monitoring.Config `json:"sentry"`
	Logging LoggingConfig     `json:"logging"`
}

// Load reads the YAML or JSON file at path, applies FP_ environment
// overrides, fills defaults and validates every section. An empty path
// loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Remote.SetDefaults()
	c.HTTP.SetDefaults()
	c.History.SetDefaults()
	c.Metrics.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
	c.Sentry.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and joins the errors.
func (c Config) Validate() error {
	return errors.Join(
		c.Remote.Validate(),
		c.HTTP.Validate(),
		c.History.Validate(),
		c.Metrics.Validate(),
		c.MQTT.Validate(),
		c.Sentry.Validate(),
		c.Logging.Validate(),
	)
}
