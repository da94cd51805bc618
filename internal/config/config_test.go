package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"netmap/internal/simulation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Render.FrameInterval.Duration() != 16*time.Millisecond {
		t.Errorf("FrameInterval = %s, want 16ms", cfg.Render.FrameInterval.Duration())
	}
	if cfg.Interaction.DragThreshold != 3 {
		t.Errorf("DragThreshold = %v, want 3", cfg.Interaction.DragThreshold)
	}
	if cfg.Interaction.MainZoom != (ZoomConfig{Min: 0.1, Max: 4}) {
		t.Errorf("MainZoom = %+v", cfg.Interaction.MainZoom)
	}
	if cfg.Fixtures.Path == "" {
		t.Error("Fixtures.Path should default to the bundled fixture")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestDatabaseSuppressesDefaultPath(t *testing.T) {
	cfg := &Config{Fixtures: FixtureConfig{Database: "fixtures.db"}}
	cfg.applyDefaults()
	if cfg.Fixtures.Path != "" {
		t.Errorf("Fixtures.Path = %q, want empty when a database is set", cfg.Fixtures.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zoom inverted", func(c *Config) { c.Interaction.SidebarZoom = ZoomConfig{Min: 3, Max: 1} }, "SidebarZoom.Max"},
		{"negative padding", func(c *Config) { c.Interaction.FitPadding = -1 }, "FitPadding"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"no fixture source", func(c *Config) { c.Fixtures = FixtureConfig{} }, "Path"},
		{"unknown preset", func(c *Config) { c.Presets = map[string]PresetOverride{"tiny": {}} }, "unknown preset"},
		{"invalid override", func(c *Config) {
			decay := 1.5
			c.Presets = map[string]PresetOverride{simulation.PresetSidebar: {AlphaDecay: &decay}}
		}, "AlphaDecay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestEffectivePresets(t *testing.T) {
	cfg := DefaultConfig()

	presets, err := cfg.EffectivePresets()
	if err != nil {
		t.Fatalf("EffectivePresets() error: %v", err)
	}
	if presets[simulation.PresetFloor] != simulation.Floor() {
		t.Error("without overrides the floor preset should be the built-in")
	}

	charge := -500.0
	cfg.Presets = map[string]PresetOverride{simulation.PresetAllFloors: {Charge: &charge}}
	presets, err = cfg.EffectivePresets()
	if err != nil {
		t.Fatalf("EffectivePresets() error: %v", err)
	}
	got := presets[simulation.PresetAllFloors]
	if got.Charge != -500 {
		t.Errorf("Charge = %v, want -500", got.Charge)
	}
	if got.LinkDistance != simulation.AllFloors().LinkDistance {
		t.Errorf("LinkDistance = %v, want built-in %v", got.LinkDistance, simulation.AllFloors().LinkDistance)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Theme.Dark = true
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Render.FrameInterval = Duration(33 * time.Millisecond)
	distance := 90.0
	cfg.Presets = map[string]PresetOverride{simulation.PresetSidebar: {LinkDistance: &distance}}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if !loaded.Theme.Dark {
		t.Error("Theme.Dark should survive a save")
	}
	if loaded.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %s", loaded.Server.Addr)
	}
	if loaded.Render.FrameInterval.Duration() != 33*time.Millisecond {
		t.Errorf("FrameInterval = %s, want 33ms", loaded.Render.FrameInterval.Duration())
	}
	o, ok := loaded.Presets[simulation.PresetSidebar]
	if !ok || o.LinkDistance == nil || *o.LinkDistance != 90 {
		t.Errorf("sidebar override not loaded: %+v", loaded.Presets)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "server:\n  addr: \":9999\"\ninteraction:\n  drag_threshold: 5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Interaction.DragThreshold != 5 {
		t.Errorf("explicit values lost: %+v", cfg)
	}
	if cfg.Interaction.FitPadding != 40 {
		t.Errorf("FitPadding = %v, want default 40", cfg.Interaction.FitPadding)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render:\n  frame_interval: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath() should reject an unparsable duration")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if FindConfigPath() == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if got := FindConfigPath(); got != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", got, explicit)
	}
}

func TestWritablePath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if got := WritablePath("/tmp/mine.yaml"); got != "/tmp/mine.yaml" {
		t.Errorf("WritablePath() = %s, want the loaded path", got)
	}
	want := filepath.Join(xdg, ConfigDirName, "config.yaml")
	if got := WritablePath(""); got != want {
		t.Errorf("WritablePath(\"\") = %s, want %s", got, want)
	}
	if got := WritablePath("/etc/netmap/config.yaml"); got != want {
		t.Errorf("system config should not be written, got %s", got)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
