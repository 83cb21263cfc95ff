package history

import (
	"fmt"

	corehistory "github.com/kilianp07/footprint/core/history"
)

// NewRepository builds the store selected by cfg.Backend. cfg must have
// been validated.
func NewRepository(cfg Config) (corehistory.Repository, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return corehistory.NewMemoryStore(), nil
	case BackendJSONL:
		s, err := NewJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
