// Package config handles configuration loading and validation for lessond.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Daemon holds update-loop settings.
	Daemon DaemonConfig `toml:"daemon"`

	// Schedule holds the timetable source.
	Schedule ScheduleConfig `toml:"schedule"`

	// Input holds the activity monitor cadences.
	Input InputConfig `toml:"input"`

	// Automation holds rule loading and wait-window timing.
	Automation AutomationConfig `toml:"automation"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging"`

	// IPC configuration for the control socket.
	IPC IPCConfig `toml:"ipc"`
}

// DaemonConfig holds update-loop settings.
type DaemonConfig struct {
	// TickIntervalMs is the host update tick period in milliseconds.
	TickIntervalMs int `toml:"tick_interval_ms"`
}

// ScheduleConfig holds the timetable source.
type ScheduleConfig struct {
	// Path is the timetable YAML file.
	Path string `toml:"path"`
}

// InputConfig holds the activity monitor cadences.
type InputConfig struct {
	// PollMs is the activity poll period in milliseconds.
	PollMs int `toml:"poll_ms"`

	// StationaryPollMs is the stationary-pointer poll period.
	StationaryPollMs int `toml:"stationary_poll_ms"`

	// HideDelayMs is the stationary threshold before the cursor hides.
	HideDelayMs int `toml:"hide_delay_ms"`
}

// AutomationConfig holds rule loading and wait-window timing.
type AutomationConfig struct {
	// RulesPath is the automation rules JSON file.
	RulesPath string `toml:"rules_path"`

	// ConfirmDelayMs is the confirmation window length.
	ConfirmDelayMs int `toml:"confirm_delay_ms"`

	// InterruptNoticeDelayMs is the pause before the interrupted notice.
	InterruptNoticeDelayMs int `toml:"interrupt_notice_delay_ms"`

	// NoticeDurationMs is how long the interrupted notice stays up.
	NoticeDurationMs int `toml:"notice_duration_ms"`

	// ReloadDebounceMs is how long the rules file must be stable before a
	// reload fires.
	ReloadDebounceMs int `toml:"reload_debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`

	// Output is stdout, stderr, file or both.
	Output string `toml:"output"`

	// FilePath is the log file when Output includes file.
	FilePath string `toml:"file_path"`
}

// IPCConfig holds control-socket settings.
type IPCConfig struct {
	// SocketPath is the unix socket the daemon listens on.
	SocketPath string `toml:"socket_path"`
}

// LessondDir returns the daemon's home directory.
func LessondDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lessond")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(LessondDir(), "config.toml")
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	dir := LessondDir()
	return &Config{
		Daemon: DaemonConfig{
			TickIntervalMs: 1000,
		},
		Schedule: ScheduleConfig{
			Path: filepath.Join(dir, "schedule.yaml"),
		},
		Input: InputConfig{
			PollMs:           20,
			StationaryPollMs: 100,
			HideDelayMs:      2000,
		},
		Automation: AutomationConfig{
			RulesPath:              filepath.Join(dir, "data.json"),
			ConfirmDelayMs:         5000,
			InterruptNoticeDelayMs: 300,
			NoticeDurationMs:       3000,
			ReloadDebounceMs:       500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		IPC: IPCConfig{
			SocketPath: filepath.Join(dir, "lessond.sock"),
		},
	}
}

// Load reads the configuration from path, or the default path when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for nonsensical values.
func (c *Config) Validate() error {
	if c.Daemon.TickIntervalMs <= 0 {
		return fmt.Errorf("daemon.tick_interval_ms must be positive, got %d", c.Daemon.TickIntervalMs)
	}
	if c.Input.PollMs <= 0 {
		return fmt.Errorf("input.poll_ms must be positive, got %d", c.Input.PollMs)
	}
	if c.Input.StationaryPollMs <= 0 {
		return fmt.Errorf("input.stationary_poll_ms must be positive, got %d", c.Input.StationaryPollMs)
	}
	if c.Input.HideDelayMs < c.Input.StationaryPollMs {
		return fmt.Errorf("input.hide_delay_ms must be at least input.stationary_poll_ms")
	}
	if c.Automation.ConfirmDelayMs <= 0 {
		return fmt.Errorf("automation.confirm_delay_ms must be positive, got %d", c.Automation.ConfirmDelayMs)
	}
	if c.Schedule.Path == "" {
		return fmt.Errorf("schedule.path must be set")
	}
	return nil
}

// TickInterval returns the update tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Daemon.TickIntervalMs) * time.Millisecond
}

// PollInterval returns the activity poll period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Input.PollMs) * time.Millisecond
}

// StationaryInterval returns the stationary-pointer poll period.
func (c *Config) StationaryInterval() time.Duration {
	return time.Duration(c.Input.StationaryPollMs) * time.Millisecond
}

// HideDelay returns the cursor hide threshold.
func (c *Config) HideDelay() time.Duration {
	return time.Duration(c.Input.HideDelayMs) * time.Millisecond
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
