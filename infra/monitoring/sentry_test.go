package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/footprint/core/monitoring"
)

type captured struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *captured) beforeSend(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *captured) all() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sentry.Event(nil), c.events...)
}

func newTestMonitor(t *testing.T) (*sentryMonitor, *captured) {
	t.Helper()
	c := &captured{}
	m, err := newSentryMonitor(sentry.ClientOptions{
		Dsn:        "https://public@example.com/1",
		BeforeSend: c.beforeSend,
	})
	require.NoError(t, err)
	return m, c
}

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	m, err := NewSentryMonitor(Config{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitorInvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(Config{DSN: "::not a dsn"})
	assert.Error(t, err)
}

func TestCaptureExceptionWithTags(t *testing.T) {
	m, c := newTestMonitor(t)
	m.CaptureException(errors.New("remote unavailable"), map[string]string{"reason": "timeout"})
	m.CaptureException(nil, nil)
	m.Flush(time.Second)

	events := c.all()
	require.Len(t, events, 1)
	assert.Equal(t, "timeout", events[0].Tags["reason"])
	assert.Equal(t, "footprint", events[0].Tags["service"])
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "remote unavailable", events[0].Exception[0].Value)
}

func TestCaptureRecovered(t *testing.T) {
	m, c := newTestMonitor(t)
	m.CaptureRecovered("kaboom")
	m.Flush(time.Second)
	require.Len(t, c.all(), 1)
}

func TestConfigValidate(t *testing.T) {
	c := Config{}
	c.SetDefaults()
	assert.Equal(t, "production", c.Environment)
	assert.NoError(t, c.Validate())
	assert.Error(t, Config{TracesSampleRate: 2}.Validate())
}
