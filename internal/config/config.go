package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/worklens/worklens/internal/calendar"
)

// Config is the top-level application configuration, stored as YAML under
// the user's config directory. The first run writes a default file with
// 0600 permissions; later runs load and normalize it.
type Config struct {
	// Enabled gates calendar acquisition entirely. The generated default
	// file sets it to true.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// IncludedCalendars switches filtering to allow-list mode when
	// non-empty. ExcludedCalendars always applies and wins on overlap.
	IncludedCalendars []string `yaml:"included_calendars" json:"included_calendars"`
	ExcludedCalendars []string `yaml:"excluded_calendars" json:"excluded_calendars"`

	// LookBehindDays/LookAheadDays bound the default acquisition window.
	LookBehindDays int `yaml:"look_behind_days" json:"look_behind_days"`
	LookAheadDays  int `yaml:"look_ahead_days" json:"look_ahead_days"`

	// IncludeAllDayEvents keeps all-day events in the filtered set.
	IncludeAllDayEvents bool `yaml:"include_all_day_events" json:"include_all_day_events"`

	// MinEventDurationMinutes drops events shorter than this many minutes.
	// Zero keeps everything.
	MinEventDurationMinutes int `yaml:"min_event_duration_minutes" json:"min_event_duration_minutes"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// driving the periodic refresh loop in serve mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// MetricsListen is the listen address for the Prometheus metrics and
	// health endpoints in serve mode.
	MetricsListen string `yaml:"metrics_listen" json:"metrics_listen"`

	// CommandTimeoutSeconds bounds each acquisition subprocess.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds" json:"command_timeout_seconds"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:                 true,
		IncludedCalendars:       []string{},
		ExcludedCalendars:       []string{},
		LookBehindDays:          1,
		LookAheadDays:           7,
		IncludeAllDayEvents:     false,
		MinEventDurationMinutes: 0,
		RefreshCron:             "*/15 * * * *",
		MetricsListen:           "127.0.0.1:9090",
		CommandTimeoutSeconds:   30,
	}
}

// DefaultPath returns the per-user config file path,
// ~/.config/worklens/config.yaml on most systems.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "worklens", "config.yaml"), nil
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	if c.IncludedCalendars == nil {
		c.IncludedCalendars = []string{}
	}
	if c.ExcludedCalendars == nil {
		c.ExcludedCalendars = []string{}
	}
	if c.LookBehindDays < 0 {
		c.LookBehindDays = 0
	}
	if c.LookAheadDays <= 0 {
		c.LookAheadDays = 7
	}
	if c.MinEventDurationMinutes < 0 {
		c.MinEventDurationMinutes = 0
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.MetricsListen == "" {
		c.MetricsListen = "127.0.0.1:9090"
	}
	if c.CommandTimeoutSeconds <= 0 {
		c.CommandTimeoutSeconds = 30
	}
}

// Calendar converts the persisted form into the integration configuration.
func (c *Config) Calendar() calendar.Config {
	return calendar.Config{
		Enabled:             c.Enabled,
		IncludedCalendars:   c.IncludedCalendars,
		ExcludedCalendars:   c.ExcludedCalendars,
		LookBehindDays:      c.LookBehindDays,
		LookAheadDays:       c.LookAheadDays,
		IncludeAllDayEvents: c.IncludeAllDayEvents,
		MinEventDuration:    time.Duration(c.MinEventDurationMinutes) * time.Minute,
	}
}

// CommandTimeout returns the subprocess timeout as a duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".worklens-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
