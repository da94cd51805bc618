package config

import (
	"time"

	"netmap/internal/logger"
)

// Config is the root configuration structure
type Config struct {
	Version     int                       `yaml:"version"`
	Server      ServerConfig              `yaml:"server"`
	Fixtures    FixtureConfig             `yaml:"fixtures"`
	Logging     logger.Config             `yaml:"logging"`
	Theme       ThemeConfig               `yaml:"theme"`
	Render      RenderConfig              `yaml:"render"`
	Interaction InteractionConfig         `yaml:"interaction"`
	Presets     map[string]PresetOverride `yaml:"presets,omitempty" validate:"omitempty,dive"`
}

// ServerConfig holds the HTTP host settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxSessions     int      `yaml:"max_sessions" validate:"gte=0"` // 0 = unlimited
}

// FixtureConfig selects the fixture source. A database path wins over a file.
type FixtureConfig struct {
	Path     string `yaml:"path" validate:"required_without=Database"`
	Database string `yaml:"database,omitempty"`
}

// ThemeConfig holds the persisted color scheme
type ThemeConfig struct {
	Dark bool `yaml:"dark"`
}

// RenderConfig paces frame publication
type RenderConfig struct {
	FrameInterval Duration `yaml:"frame_interval" validate:"gt=0"`
}

// InteractionConfig tunes gestures and framing
type InteractionConfig struct {
	DragThreshold float64    `yaml:"drag_threshold" validate:"gt=0"`
	FitPadding    float64    `yaml:"fit_padding" validate:"gte=0"`
	MainZoom      ZoomConfig `yaml:"main_zoom"`
	SidebarZoom   ZoomConfig `yaml:"sidebar_zoom"`
}

// ZoomConfig bounds a pane's scale
type ZoomConfig struct {
	Min float64 `yaml:"min" validate:"gt=0"`
	Max float64 `yaml:"max" validate:"gtfield=Min"`
}

// PresetOverride replaces individual fields of a built-in simulation preset
type PresetOverride struct {
	LinkDistance      *float64 `yaml:"link_distance,omitempty"`
	LinkStrength      *float64 `yaml:"link_strength,omitempty"`
	Charge            *float64 `yaml:"charge,omitempty"`
	CenterStrength    *float64 `yaml:"center_strength,omitempty"`
	CollisionRadius   *float64 `yaml:"collision_radius,omitempty"`
	CollisionStrength *float64 `yaml:"collision_strength,omitempty"`
	AxisStrength      *float64 `yaml:"axis_strength,omitempty"`
	Alpha             *float64 `yaml:"alpha,omitempty"`
	AlphaDecay        *float64 `yaml:"alpha_decay,omitempty"`
	AlphaMin          *float64 `yaml:"alpha_min,omitempty"`
	VelocityDecay     *float64 `yaml:"velocity_decay,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
