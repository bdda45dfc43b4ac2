// Package daemon manages the coolboost supervisor lifecycle and configuration.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/msi-tools/coolboost/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	Thermal   ThermalConfig   `toml:"thermal"`
	Device    DeviceConfig    `toml:"device"`
	Health    HealthConfig    `toml:"health"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ThermalConfig holds the hysteresis thresholds and loop cadence.
type ThermalConfig struct {
	CPUThreshold  float64 `toml:"cpu_threshold"`
	GPUThreshold  float64 `toml:"gpu_threshold"`
	TempMargin    float64 `toml:"temp_oscillation_margin"`
	TimeMargin    string  `toml:"time_oscillation_margin"`
	PollInterval  string  `toml:"poll_interval"`
	RestoreOnExit bool    `toml:"restore_on_exit"`
	StopTimeout   string  `toml:"stop_timeout"`
}

// DeviceConfig locates the msi-ec driver.
type DeviceConfig struct {
	Path        string `toml:"path"` // Empty: the platform default (/sys/devices/platform/msi-ec on Linux)
	CallTimeout string `toml:"call_timeout"`
}

// HealthConfig controls the background health checks.
type HealthConfig struct {
	Interval string `toml:"interval"`
}

// TelemetryConfig controls metrics export. Empty Textfile disables it.
type TelemetryConfig struct {
	Textfile string `toml:"textfile"`
	Interval string `toml:"interval"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the built-in defaults: boost above 60°C, release
// 5°C below that after at least a minute, checked every 3 seconds.
func DefaultConfig() Config {
	return Config{
		Thermal: ThermalConfig{
			CPUThreshold:  60,
			GPUThreshold:  60,
			TempMargin:    5,
			TimeMargin:    "60s",
			PollInterval:  "3s",
			RestoreOnExit: false,
			StopTimeout:   "5s",
		},
		Device: DeviceConfig{
			CallTimeout: "2s",
		},
		Health: HealthConfig{
			Interval: "60s",
		},
		Telemetry: TelemetryConfig{
			Interval: "15s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from ~/.coolboost/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	return LoadConfigFile(ConfigPath())
}

// LoadConfigFile reads the given TOML file over the defaults. A missing
// file is not an error.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the config to path.
func SaveConfig(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Validate rejects values the control loop cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Thermal.TempMargin < 0 {
		errs = append(errs, errors.New("thermal.temp_oscillation_margin must be >= 0"))
	}
	checks := []struct {
		key      string
		val      string
		positive bool
	}{
		{"thermal.time_oscillation_margin", c.Thermal.TimeMargin, false},
		{"thermal.poll_interval", c.Thermal.PollInterval, true},
		{"thermal.stop_timeout", c.Thermal.StopTimeout, true},
		{"device.call_timeout", c.Device.CallTimeout, true},
		{"health.interval", c.Health.Interval, true},
		{"telemetry.interval", c.Telemetry.Interval, true},
	}
	for _, ch := range checks {
		if ch.val == "" {
			continue
		}
		d, err := time.ParseDuration(ch.val)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", ch.key, err))
		case d < 0, ch.positive && d == 0:
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", ch.key, ch.val))
		}
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Thresholds converts the thermal section into the controller's config.
func (c Config) Thresholds() domain.ThresholdConfig {
	return domain.ThresholdConfig{
		CPUThreshold:          c.Thermal.CPUThreshold,
		GPUThreshold:          c.Thermal.GPUThreshold,
		OscillationTempMargin: c.Thermal.TempMargin,
		OscillationTimeMargin: parseDuration(c.Thermal.TimeMargin, 60*time.Second),
		PollInterval:          parseDuration(c.Thermal.PollInterval, 3*time.Second),
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(coolboostHome(), "config.toml")
}

// coolboostHome returns the coolboost data directory.
func coolboostHome() string {
	if env := os.Getenv("COOLBOOST_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coolboost")
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
