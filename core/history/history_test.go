package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/model"
)

func TestCompare(t *testing.T) {
	prev := calc.Aggregate(10, 10, 0, 0)
	cur := calc.Aggregate(10, 5, 0, 0)
	pct, ok := Compare(prev, cur)
	require.True(t, ok)
	assert.Equal(t, -25.0, pct)

	pct, ok = Compare(cur, prev)
	require.True(t, ok)
	assert.Equal(t, 33.33, pct)

	_, ok = Compare(model.Result{}, cur)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, ok, err := s.LoadLast(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first := NewSnapshot(model.SourceLocal, model.NewActivity(), calc.Aggregate(1, 0, 0, 0))
	second := NewSnapshot(model.SourceRemote, model.NewActivity(), calc.Aggregate(2, 0, 0, 0))
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	got, ok, err := s.LoadLast(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.NoError(t, s.Close())
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(model.SourceLocal, model.NewActivity(), model.Result{})
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.False(t, s.Timestamp.IsZero())
	assert.Equal(t, model.SourceLocal, s.Source)
}
