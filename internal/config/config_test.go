package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Daemon.TickIntervalMs)
	assert.Equal(t, 20, cfg.Input.PollMs)
	assert.Equal(t, 100, cfg.Input.StationaryPollMs)
	assert.Equal(t, 2000, cfg.Input.HideDelayMs)
	assert.Equal(t, 5000, cfg.Automation.ConfirmDelayMs)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[daemon]
tick_interval_ms = 500

[input]
poll_ms = 10

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Daemon.TickIntervalMs)
	assert.Equal(t, 10, cfg.Input.PollMs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 100, cfg.Input.StationaryPollMs)
}

func TestLoadRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("daemon = ["), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := DefaultConfig()
	bad.Daemon.TickIntervalMs = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Input.PollMs = -5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Input.HideDelayMs = 50 // under the stationary poll period
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Schedule.Path = ""
	assert.Error(t, bad.Validate())
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.TickInterval())
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 100*time.Millisecond, cfg.StationaryInterval())
	assert.Equal(t, 2*time.Second, cfg.HideDelay())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Daemon.TickIntervalMs = 250
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.Daemon.TickIntervalMs)
}
