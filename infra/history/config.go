package history

import "fmt"

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config selects and configures the last-calculation store.
type Config struct {
	// Backend is one of memory, jsonl, sqlite or redis.
	Backend string `json:"backend"`
	// Path is the file or database location for jsonl and sqlite.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation of the jsonl file.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated jsonl files kept.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated jsonl files older than this.
	MaxAgeDays int `json:"max_age_days"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	// KeyPrefix is prepended to the redis keys last_calc, last_payload and
	// last_meta.
	KeyPrefix string `json:"key_prefix"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendJSONL:
			c.Path = "footprint_history.jsonl"
		case BackendSQLite:
			c.Path = "footprint_history.db"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "footprint:"
	}
}

// Validate checks mandatory fields for the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendJSONL, BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("history: path is required for %s", c.Backend)
		}
		return nil
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("history: redis_addr is required")
		}
		return nil
	default:
		return fmt.Errorf("history: unknown backend %q", c.Backend)
	}
}
