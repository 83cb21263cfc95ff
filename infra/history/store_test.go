package history

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/footprint/core/calc"
	corehistory "github.com/kilianp07/footprint/core/history"
	"github.com/kilianp07/footprint/core/model"
)

func sampleSnapshot(weekly float64) corehistory.Snapshot {
	a := model.NewActivity()
	a.Energy.Electricity.KWhPerMonth = 350
	a.Transportation.Bus = &model.Distance{KmPerWeek: 12}
	a.Waste.Recycling.Paper = true
	return corehistory.NewSnapshot(model.SourceLocal, a, calc.Aggregate(weekly, 36.346153846153847, 0, 0))
}

func assertSameSnapshot(t *testing.T, want, got corehistory.Snapshot) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Source, got.Source)
	assert.True(t, want.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, want.Activity, got.Activity)
	assert.Equal(t, want.Result, got.Result)
}

// exerciseRepository runs the shared contract against any backend.
func exerciseRepository(t *testing.T, repo corehistory.Repository) {
	t.Helper()
	ctx := context.Background()
	_, ok, err := repo.LoadLast(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first, second := sampleSnapshot(1.08), sampleSnapshot(2.5)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, ok, err := repo.LoadLast(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assertSameSnapshot(t, second, got)
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")
	s, err := NewJSONLStore(path, 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseRepository(t, s)
}

func TestJSONLStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := NewJSONLStore(path, 1, 0, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	snap := sampleSnapshot(3)
	require.NoError(t, s.Save(context.Background(), snap))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened, err := NewJSONLStore(path, 1, 0, 0)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, ok, err := reopened.LoadLast(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.ID, got.ID)
}

func TestJSONLStoreReadsTailOfLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := NewJSONLStore(path, 10, 0, 0)
	require.NoError(t, err)
	var last corehistory.Snapshot
	for i := 0; i < 600; i++ {
		last = sampleSnapshot(float64(i))
		require.NoError(t, s.Save(context.Background(), last))
	}
	require.NoError(t, s.Close())
	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, st.Size(), int64(2*tailBlock))

	reopened, err := NewJSONLStore(path, 10, 0, 0)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, ok, err := reopened.LoadLast(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assertSameSnapshot(t, last, got)
}

func TestJSONLStoreCachesLastSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := NewJSONLStore(path, 1, 0, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	snap := sampleSnapshot(4)
	require.NoError(t, s.Save(context.Background(), snap))
	// The file is not read again once a snapshot has been saved.
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, ok, err := s.LoadLast(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.ID, got.ID)
}

func TestReadLastSkipsTrailingGarbageAcrossBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	snap := sampleSnapshot(5)
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	garbage := bytes.Repeat([]byte("x"), tailBlock+100)
	content := append(append(b, '\n'), append(garbage, '\n')...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, ok, err := readLast(f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.ID, got.ID)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseRepository(t, s)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewRepository(t *testing.T) {
	dir := t.TempDir()
	cases := []Config{
		{Backend: BackendMemory},
		{Backend: BackendJSONL, Path: filepath.Join(dir, "h.jsonl")},
		{Backend: BackendSQLite, Path: filepath.Join(dir, "h.db")},
	}
	for _, cfg := range cases {
		cfg.SetDefaults()
		require.NoError(t, cfg.Validate())
		repo, err := NewRepository(cfg)
		require.NoError(t, err, cfg.Backend)
		exerciseRepository(t, repo)
		assert.NoError(t, repo.Close())
	}

	_, err := NewRepository(Config{Backend: "etcd"})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, BackendMemory, c.Backend)
	assert.NoError(t, c.Validate())

	c = Config{Backend: BackendSQLite}
	c.SetDefaults()
	assert.Equal(t, "footprint_history.db", c.Path)

	assert.Error(t, Config{Backend: BackendRedis}.Validate())
	assert.Error(t, Config{Backend: BackendJSONL}.Validate())
	assert.Error(t, Config{Backend: "etcd"}.Validate())
}
