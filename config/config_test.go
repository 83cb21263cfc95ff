package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/footprint/infra/history"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `remote:
  url: "https://carbon.example.com/api/calculate"
  timeout_seconds: 3
  token: "secret"
  oauth:
    client_id: "id"
    client_secret: "s3cret"
    token_url: "https://auth.example.com/token"
http:
  address: ":9000"
  token: "api-token"
history:
  backend: sqlite
  path: "/tmp/fp.db"
metrics:
  sinks:
    - type: "nop"
    - type: "prometheus"
mqtt:
  broker: "tcp://localhost:1883"
  topic_prefix: "house"
sentry:
  dsn: "https://public@example.com/1"
logging:
  level: info
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"remote.url", cfg.Remote.URL, "https://carbon.example.com/api/calculate"},
		{"remote.timeout_seconds", cfg.Remote.TimeoutSeconds, 3},
		{"remote.token", cfg.Remote.Token, "secret"},
		{"remote.oauth.token_url", cfg.Remote.OAuth.TokenURL, "https://auth.example.com/token"},
		{"http.address", cfg.HTTP.Address, ":9000"},
		{"http.token", cfg.HTTP.Token, "api-token"},
		{"history.backend", cfg.History.Backend, history.BackendSQLite},
		{"history.path", cfg.History.Path, "/tmp/fp.db"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":2112"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "house"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "footprint"},
		{"sentry.environment", cfg.Sentry.Environment, "production"},
		{"logging.level", cfg.Logging.Level, "info"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSONDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"remote": {}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Remote.Enabled())
	assert.Equal(t, 5, cfg.Remote.TimeoutSeconds)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, history.BackendMemory, cfg.History.Backend)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Empty(t, cfg.MQTT.TopicPrefix)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "remote:\n  url: \"http://file.example.com\"\n")
	t.Setenv("FP_REMOTE__URL", "http://env.example.com")
	t.Setenv("FP_REMOTE__TIMEOUT_SECONDS", "9")
	t.Setenv("FP_HISTORY__BACKEND", "jsonl")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.Remote.URL)
	assert.Equal(t, 9, cfg.Remote.TimeoutSeconds)
	assert.Equal(t, history.BackendJSONL, cfg.History.Backend)
	assert.Equal(t, "footprint_history.jsonl", cfg.History.Path)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("FP_HTTP__ADDRESS", ":7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Address)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "remote:\n  url: \"ftp://example.com\"\n"))
	assert.ErrorContains(t, err, "unsupported scheme")

	_, err = Load(writeFile(t, "bad.yaml", "history:\n  backend: mongo\n"))
	assert.ErrorContains(t, err, "unknown backend")

	_, err = Load(writeFile(t, "bad.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "logging")
}
