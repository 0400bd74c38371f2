package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "http", cfg.FetchMode)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, "https://delhihighcourt.nic.in/", cfg.DelhiHCURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("FETCH_MODE", "browser")
	t.Setenv("HEADLESS_MODE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "browser", cfg.FetchMode)
	assert.False(t, cfg.HeadlessMode)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unparsable timeout", key: "FETCH_TIMEOUT", value: "soon"},
		{name: "zero timeout", key: "FETCH_TIMEOUT", value: "0s"},
		{name: "unknown driver", key: "DATABASE_DRIVER", value: "oracle"},
		{name: "unknown fetch mode", key: "FETCH_MODE", value: "telepathy"},
		{name: "unknown log format", key: "LOG_FORMAT", value: "xml"},
		{name: "non-numeric cache size", key: "CACHE_SIZE", value: "lots"},
		{name: "postgres without dsn", key: "DATABASE_DRIVER", value: "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
