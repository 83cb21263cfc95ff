// Package history defines the last-calculation repository used by callers
// of the engine to keep the previous snapshot between invocations.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/model"
)

// Fixed keys under which key-value backends store the latest snapshot.
const (
	KeyLastCalc    = "last_calc"
	KeyLastPayload = "last_payload"
	KeyLastMeta    = "last_meta"
)

// Snapshot is one persisted calculation.
type Snapshot struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Source    model.Source   `json:"source"`
	Activity  model.Activity `json:"activity"`
	Result    model.Result   `json:"result"`
}

// NewSnapshot stamps a result with a fresh ID and the current time.
func NewSnapshot(src model.Source, a model.Activity, r model.Result) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    src,
		Activity:  a,
		Result:    r,
	}
}

// Repository keeps the most recent snapshot. LoadLast reports false when
// nothing has been saved yet.
type Repository interface {
	Save(ctx context.Context, s Snapshot) error
	LoadLast(ctx context.Context) (Snapshot, bool, error)
	Close() error
}

// Compare returns the percent change of total weekly emissions from prev to
// cur, rounded to 2 decimals. It reports false when prev's total is zero.
func Compare(prev, cur model.Result) (float64, bool) {
	p := prev.Summary.TotalWeeklyKgCO2
	if p == 0 {
		return 0, false
	}
	return calc.Round((cur.Summary.TotalWeeklyKgCO2-p)/p*100, 2), true
}

// MemoryStore is an in-process Repository.
type MemoryStore struct {
	mu   sync.RWMutex
	last *Snapshot
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &s
	return nil
}

func (m *MemoryStore) LoadLast(_ context.Context) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return Snapshot{}, false, nil
	}
	return *m.last, true, nil
}

func (m *MemoryStore) Close() error { return nil }
