// Package config loads the viewer configuration from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Carmen-Shannon/oxy-l2d/common"
	"github.com/Carmen-Shannon/oxy-l2d/engine/l2d"
	"github.com/Carmen-Shannon/oxy-l2d/engine/session"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "L2D_"

// Config is the viewer configuration.
type Config struct {
	// ResourcePath is the base location of model assets, passed to the worker verbatim.
	ResourcePath string `yaml:"resource_path" env:"RESOURCE_PATH"`

	// WorkerPath is the worker program the session spawns.
	WorkerPath string `yaml:"worker_path" env:"WORKER_PATH"`

	// Models lists model names in key order (1-9). Empty means discover them under
	// ResourcePath.
	Models []string `yaml:"models" env:"MODELS" envSeparator:","`

	// Motions is the motion list offered by the session.
	Motions []string `yaml:"motions" env:"MOTIONS" envSeparator:","`

	Window  WindowConfig  `yaml:"window" envPrefix:"WINDOW_"`
	Render  RenderConfig  `yaml:"render" envPrefix:"RENDER_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// WindowConfig configures the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title" env:"TITLE"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

// RenderConfig configures the worker draw loop.
type RenderConfig struct {
	// FrameLimit caps the draw loop in frames per second; 0 uncaps it.
	FrameLimit           float64 `yaml:"frame_limit" env:"FRAME_LIMIT"`
	VSync                bool    `yaml:"vsync" env:"VSYNC"`
	Profiling            bool    `yaml:"profiling" env:"PROFILING"`
	ForceFallbackAdapter bool    `yaml:"force_fallback_adapter" env:"FORCE_FALLBACK_ADAPTER"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Render: RenderConfig{FrameLimit: l2d.DefaultFrameLimit},
	}
	cfg.applyDefaults()
	return cfg
}

// Load starts from DefaultConfig, overlays the YAML file, then applies L2D_* environment
// overrides. Fields neither source sets keep their defaults; blank strings and zero sizes
// are reset to defaults afterwards. A missing file or an empty path yields the defaults.
//
// Parameters:
//   - path: the YAML file path (may be "")
//
// Returns:
//   - *Config: the configuration
//   - error: error if the file cannot be read or parsed, or the result is invalid
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot drive a viewer.
//
// Returns:
//   - error: the first problem found, or nil
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	if c.Render.FrameLimit < 0 {
		return fmt.Errorf("config: frame_limit must not be negative")
	}
	if len(c.Models) > 9 {
		return fmt.Errorf("config: at most 9 models can be bound to keys, got %d", len(c.Models))
	}
	return nil
}

// Save writes the configuration to a YAML file.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: error if the file cannot be written
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.ResourcePath = common.Coalesce(c.ResourcePath, session.DefaultResourcePath)
	c.WorkerPath = common.Coalesce(c.WorkerPath, l2d.WorkerPath)
	if len(c.Motions) == 0 {
		c.Motions = slices.Clone(session.DefaultMotions)
	}
	c.Window.Title = common.Coalesce(c.Window.Title, "oxy-l2d")
	c.Window.Width = common.Coalesce(c.Window.Width, 800)
	c.Window.Height = common.Coalesce(c.Window.Height, 800)
	c.Logging.Level = common.Coalesce(c.Logging.Level, "info")
}
