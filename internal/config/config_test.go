package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every ACCOUNTPULSE_ env var that Load() reads.
var allConfigKeys = []string{
	"ACCOUNTPULSE_CONFIG_PATH",
	"ACCOUNTPULSE_LISTEN_ADDR",
	"ACCOUNTPULSE_DB_PATH",
	"ACCOUNTPULSE_LOG_LEVEL",
	"ACCOUNTPULSE_SHUTDOWN_TIMEOUT",
	"ACCOUNTPULSE_STALE_BLOCKER_DAYS",
	"ACCOUNTPULSE_INACTIVITY_DAYS",
	"ACCOUNTPULSE_CONTRACT_WINDOW_DAYS",
	"ACCOUNTPULSE_URGENT_CONTRACT_DAYS",
}

// isolateConfigEnv saves and unsets all ACCOUNTPULSE_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "accountpulse.db", cfg.DBPath)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	p := cfg.AttentionPolicy()
	assert.Equal(t, 5, p.StaleBlockerDays)
	assert.Equal(t, 30, p.InactivityDays)
	assert.Equal(t, 60, p.ContractWindowDays)
	assert.Equal(t, 14, p.UrgentContractDays)
	assert.Equal(t, 2, p.HealthDropThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTPULSE_LISTEN_ADDR", ":9090")
	t.Setenv("ACCOUNTPULSE_DB_PATH", "/data/pulse.db")
	t.Setenv("ACCOUNTPULSE_LOG_LEVEL", "DEBUG")
	t.Setenv("ACCOUNTPULSE_STALE_BLOCKER_DAYS", "7")
	t.Setenv("ACCOUNTPULSE_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/data/pulse.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 7, cfg.AttentionPolicy().StaleBlockerDays)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown log level", "ACCOUNTPULSE_LOG_LEVEL", "loud", "ACCOUNTPULSE_LOG_LEVEL"},
		{"zero stale window", "ACCOUNTPULSE_STALE_BLOCKER_DAYS", "0", "ACCOUNTPULSE_STALE_BLOCKER_DAYS must be positive"},
		{"negative inactivity", "ACCOUNTPULSE_INACTIVITY_DAYS", "-1", "ACCOUNTPULSE_INACTIVITY_DAYS must be positive"},
		{"urgent beyond window", "ACCOUNTPULSE_URGENT_CONTRACT_DAYS", "90", "exceeds"},
		{"non numeric window", "ACCOUNTPULSE_CONTRACT_WINDOW_DAYS", "soon", "ACCOUNTPULSE_CONTRACT_WINDOW_DAYS"},
		{"bad duration", "ACCOUNTPULSE_SHUTDOWN_TIMEOUT", "forever", "ACCOUNTPULSE_SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ErrorOrderIsStable(t *testing.T) {
	cfg := &Config{
		ListenAddr:         "127.0.0.1:8080",
		DBPath:             "accountpulse.db",
		LogLevel:           "info",
		ShutdownTimeout:    time.Second,
		StaleBlockerDays:   0,
		InactivityDays:     -1,
		ContractWindowDays: 0,
		UrgentContractDays: -2,
	}

	want := "ACCOUNTPULSE_STALE_BLOCKER_DAYS must be positive, got 0\n" +
		"ACCOUNTPULSE_INACTIVITY_DAYS must be positive, got -1\n" +
		"ACCOUNTPULSE_CONTRACT_WINDOW_DAYS must be positive, got 0\n" +
		"ACCOUNTPULSE_URGENT_CONTRACT_DAYS must be positive, got -2"

	for range 20 {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	isolateConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /srv/pulse.db\ninactivity_days: 45\n"), 0o600))
	t.Setenv("ACCOUNTPULSE_CONFIG_PATH", path)
	t.Setenv("ACCOUNTPULSE_INACTIVITY_DAYS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/pulse.db", cfg.DBPath)
	assert.Equal(t, 20, cfg.InactivityDays, "env wins over file")
	assert.Equal(t, 60, cfg.ContractWindowDays)
}

func TestLoad_MissingYAMLFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTPULSE_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
