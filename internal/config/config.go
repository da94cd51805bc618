// Package config provides configuration management for netmap.
//
// The config file holds host settings and the persisted theme. The fixture
// itself lives elsewhere (a catalog file or an imported database).
//
// Config file locations (priority order):
//  1. $NETMAP_CONFIG
//  2. ./netmap.yaml
//  3. $XDG_CONFIG_HOME/netmap/config.yaml
//  4. ~/.config/netmap/config.yaml
//  5. /etc/netmap/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"netmap/internal/simulation"
)

// ErrInvalidConfig is returned when a loaded config fails validation
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Fixtures.Path == "" && c.Fixtures.Database == "" {
		c.Fixtures.Path = "./fixtures/netmap.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Render.FrameInterval == 0 {
		c.Render.FrameInterval = Duration(16 * time.Millisecond)
	}
	if c.Interaction.DragThreshold == 0 {
		c.Interaction.DragThreshold = 3
	}
	if c.Interaction.FitPadding == 0 {
		c.Interaction.FitPadding = 40
	}
	if c.Interaction.MainZoom == (ZoomConfig{}) {
		c.Interaction.MainZoom = ZoomConfig{Min: 0.1, Max: 4}
	}
	if c.Interaction.SidebarZoom == (ZoomConfig{}) {
		c.Interaction.SidebarZoom = ZoomConfig{Min: 0.5, Max: 3}
	}
}

// Validate checks field ranges and that preset overrides name built-in
// presets and produce valid presets.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: %s failed %s %s", ErrInvalidConfig, e.Namespace(), e.Tag(), e.Param())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.EffectivePresets(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EffectivePresets returns the built-in presets with overrides applied
func (c *Config) EffectivePresets() (map[string]simulation.Preset, error) {
	presets := simulation.Presets()
	for name, o := range c.Presets {
		base, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", simulation.ErrUnknownPreset, name)
		}
		p := o.apply(base)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		presets[name] = p
	}
	return presets, nil
}

func (o PresetOverride) apply(p simulation.Preset) simulation.Preset {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.LinkDistance, o.LinkDistance)
	set(&p.LinkStrength, o.LinkStrength)
	set(&p.Charge, o.Charge)
	set(&p.CenterStrength, o.CenterStrength)
	set(&p.CollisionRadius, o.CollisionRadius)
	set(&p.CollisionStrength, o.CollisionStrength)
	set(&p.AxisStrength, o.AxisStrength)
	set(&p.Alpha, o.Alpha)
	set(&p.AlphaDecay, o.AlphaDecay)
	set(&p.AlphaMin, o.AlphaMin)
	set(&p.VelocityDecay, o.VelocityDecay)
	return p
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	source := "file " + c.Fixtures.Path
	if c.Fixtures.Database != "" {
		source = "database " + c.Fixtures.Database
	}
	theme := "light"
	if c.Theme.Dark {
		theme = "dark"
	}
	return fmt.Sprintf("Server: %s, Fixtures: %s, Theme: %s, Frame interval: %s, Preset overrides: %d",
		c.Server.Addr, source, theme, c.Render.FrameInterval.Duration(), len(c.Presets))
}
