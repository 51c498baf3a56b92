package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "./data/crimes.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.TopGroupsLimit)
	assert.Equal(t, 1000, cfg.LoadBatchSize)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRIMESTATS_PORT", ":9000")
	t.Setenv("CRIMESTATS_DB_PATH", "/tmp/x.db")
	t.Setenv("CRIMESTATS_TOP_GROUPS_LIMIT", "5")
	t.Setenv("CRIMESTATS_LOG_FORMAT", "json")
	t.Setenv("CRIMESTATS_TOKEN_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.TopGroupsLimit)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric limit", "CRIMESTATS_TOP_GROUPS_LIMIT", "ten"},
		{"zero limit", "CRIMESTATS_TOP_GROUPS_LIMIT", "0"},
		{"negative rate", "CRIMESTATS_RATE_LIMIT", "-1"},
		{"unknown log format", "CRIMESTATS_LOG_FORMAT", "xml"},
		{"bad duration", "CRIMESTATS_TOKEN_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}
