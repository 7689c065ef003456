package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"api": map[string]any{
			"baseUrl": "",
		},
		"realtime": map[string]any{
			"reconnectDelay":    "1s",
			"reconnectAttempts": 5,
		},
		"notifications": map[string]any{
			"pollInterval": "5s",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "API_BASEURL", want: "api.baseUrl"},
		{envKey: "REALTIME_RECONNECTDELAY", want: "realtime.reconnectDelay"},
		{envKey: "REALTIME_RECONNECTATTEMPTS", want: "realtime.reconnectAttempts"},
		{envKey: "NOTIFICATIONS_POLLINTERVAL", want: "notifications.pollInterval"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_FillsTransportSettings(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 5, cfg.Realtime.ReconnectAttempts)
	assert.Equal(t, time.Second, cfg.Realtime.ReconnectDelay)
	assert.Equal(t, 3*time.Second, cfg.Toast.Duration)
	assert.Equal(t, 5*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 50*time.Millisecond, cfg.Store.SlowQuery)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	require.Error(t, cfg.Validate())

	cfg.API.BaseURL = "http://localhost:5000/api"
	require.NoError(t, cfg.Validate())

	cfg.Store.Driver = "redis"
	require.Error(t, cfg.Validate())
}

func TestLoadWithEnv_OverridesFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("api:\n  baseUrl: http://a/api\nrealtime:\n  reconnectDelay: 1s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), yaml, 0o600))

	t.Chdir(dir)
	t.Setenv("REALTIME_RECONNECTDELAY", "250ms")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)
	assert.Equal(t, "http://a/api", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Realtime.ReconnectDelay)
}
