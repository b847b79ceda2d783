// Package config loads vitrine settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Motion  MotionConfig  `yaml:"motion"`
	Spin    SpinConfig    `yaml:"spin"`
	Logging LoggingConfig `yaml:"logging"`

	// Catalog is an optional path to a product catalog YAML file.
	// Empty selects the built-in catalog.
	Catalog string `yaml:"catalog,omitempty"`
}

// WindowConfig sizes the host window and its tick rate.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	TPS    int `yaml:"tps"`
	// Scale multiplies the window size relative to the logical frame.
	Scale int `yaml:"scale"`
}

// MotionConfig holds the spring constants used for pointer parallax and tilt.
type MotionConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	// Damping must be at least 2*sqrt(Stiffness) so springs settle without
	// oscillating.
	Damping   float64 `yaml:"damping"`
	RestDelta float64 `yaml:"rest_delta"`
	// TiltRange is the maximum parallax/tilt amplitude reached at the container edge.
	TiltRange float64 `yaml:"tilt_range"`
}

// SpinConfig controls the idle rotation and bob of product models.
type SpinConfig struct {
	// Rate is the rotation speed in radians per second.
	Rate float64 `yaml:"rate"`
	// BobAmplitude is the vertical bob in scene units.
	BobAmplitude float64 `yaml:"bob_amplitude"`
	// BobFrequency is the bob angular frequency in radians per second.
	BobFrequency float64 `yaml:"bob_frequency"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level is "warn", "info" (default), "debug", or "trace".
	Level string `yaml:"level"`
}

// Default returns a Config mirroring the original page's tuning.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  480,
			Height: 320,
			TPS:    60,
			Scale:  2,
		},
		Motion: MotionConfig{
			Stiffness: 100,
			Damping:   30,
			RestDelta: 0.001,
			TiltRange: 20,
		},
		Spin: SpinConfig{
			// 0.01 rad per frame at 60 fps.
			Rate:         0.6,
			BobAmplitude: 0.1,
			BobFrequency: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, or from ~/.vitrine/config.yaml when path
// is empty, then applies environment overrides.
// Order: defaults -> file -> environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".vitrine", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window tps must be positive, got %d", c.Window.TPS))
	}
	if c.Window.Scale <= 0 {
		errs = append(errs, fmt.Errorf("window scale must be positive, got %d", c.Window.Scale))
	}
	if c.Motion.Stiffness <= 0 {
		errs = append(errs, fmt.Errorf("motion stiffness must be positive, got %g", c.Motion.Stiffness))
	}
	if c.Motion.Damping < 0 {
		errs = append(errs, fmt.Errorf("motion damping must be non-negative, got %g", c.Motion.Damping))
	} else if c.Motion.Stiffness > 0 {
		if critical := 2 * math.Sqrt(c.Motion.Stiffness); c.Motion.Damping < critical {
			errs = append(errs, fmt.Errorf("motion damping %g is underdamped for stiffness %g (need >= %.3g)",
				c.Motion.Damping, c.Motion.Stiffness, critical))
		}
	}
	if c.Motion.RestDelta <= 0 {
		errs = append(errs, fmt.Errorf("motion rest_delta must be positive, got %g", c.Motion.RestDelta))
	}

	validLevels := map[string]bool{"warn": true, "info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace, or empty for default)", c.Logging.Level))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("VITRINE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VITRINE_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("VITRINE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Window.Width = n
		}
	}
	if v := os.Getenv("VITRINE_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Window.Height = n
		}
	}
	if v := os.Getenv("VITRINE_TPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Window.TPS = n
		}
	}
}
