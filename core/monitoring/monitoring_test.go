package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMonitor struct {
	errs      []error
	tags      []map[string]string
	recovered []any
	flushed   int
}

func (f *fakeMonitor) CaptureException(err error, tags map[string]string) {
	f.errs = append(f.errs, err)
	f.tags = append(f.tags, tags)
}

func (f *fakeMonitor) CaptureRecovered(v any) { f.recovered = append(f.recovered, v) }
func (f *fakeMonitor) Flush(time.Duration)    { f.flushed++ }

func withMonitor(t *testing.T, m Monitor) {
	t.Helper()
	prev := current
	Init(m)
	t.Cleanup(func() { current = prev })
}

func TestCaptureException(t *testing.T) {
	f := &fakeMonitor{}
	withMonitor(t, f)

	CaptureException(errors.New("boom"), map[string]string{"reason": "timeout"})
	CaptureException(nil, nil)

	assert.Len(t, f.errs, 1)
	assert.Equal(t, "timeout", f.tags[0]["reason"])
	assert.Same(t, f, Current())
}

func TestInitIgnoresNil(t *testing.T) {
	f := &fakeMonitor{}
	withMonitor(t, f)
	Init(nil)
	assert.Same(t, f, Current())
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	f := &fakeMonitor{}
	withMonitor(t, f)

	assert.PanicsWithValue(t, "kaboom", func() {
		defer Recover()
		panic("kaboom")
	})
	assert.Equal(t, []any{"kaboom"}, f.recovered)
	assert.Equal(t, 1, f.flushed)
}
