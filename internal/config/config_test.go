package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, int64(10000), cfg.MaxWebSocketConnections)
	assert.Equal(t, 100, cfg.MaxConnectionsPerIP)
	assert.Equal(t, 10.0, cfg.ConnectionRatePerSecond)
	assert.Equal(t, 10, cfg.ConnectionRateBurst)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_WEBSOCKET_CONNECTIONS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, int64(50), cfg.MaxWebSocketConnections)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_InvalidLimits(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero max connections", "MAX_WEBSOCKET_CONNECTIONS", "0"},
		{"zero per-ip limit", "MAX_CONNECTIONS_PER_IP", "0"},
		{"negative rate", "CONNECTION_RATE_PER_SECOND", "-1"},
		{"zero burst", "CONNECTION_RATE_BURST", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
