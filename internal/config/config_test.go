package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/lineminimap/internal/motion"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineminimap.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	got := cfg.Options()
	want := motion.DefaultOptions()
	if got.Layout != want.Layout {
		t.Fatalf("Layout = %+v, want %+v", got.Layout, want.Layout)
	}
	if got.Spring != want.Spring || got.DistanceLimit != want.DistanceLimit || got.NoReset {
		t.Fatalf("Options() = %+v, want engine defaults", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[layout]
element_count = 12

[proximity]
distance_limit = 40
intensity = 400

[scroll]
reset = false

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.ElementCount != 12 || cfg.Layout.ElementGap != 8 {
		t.Fatalf("layout = %+v", cfg.Layout)
	}
	if cfg.Proximity.DistanceLimit != 40 || cfg.Proximity.Intensity != 400 {
		t.Fatalf("proximity = %+v", cfg.Proximity)
	}
	if !cfg.Options().NoReset {
		t.Fatal("expected scroll.reset = false to disable the velocity blend")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsSingleElement(t *testing.T) {
	path := writeConfig(t, "[layout]\nelement_count = 1\n")
	_, err := Load(path)
	if !errors.Is(err, motion.ErrTooFewElements) {
		t.Fatalf("Load() error = %v, want ErrTooFewElements", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[spring]\nstifness = 10\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"smoothing zero", func(c *Config) { c.Scroll.Smoothing = 0 }},
		{"smoothing above one", func(c *Config) { c.Scroll.Smoothing = 1.5 }},
		{"negative limit", func(c *Config) { c.Proximity.DistanceLimit = -1 }},
		{"zero mass", func(c *Config) { c.Spring.Mass = 0 }},
		{"zero fps", func(c *Config) { c.Frame.FPS = 0 }},
		{"opacity above one", func(c *Config) { c.Opacity.Base = 2 }},
		{"column wider than pitch", func(c *Config) { c.Terminal.UnitsPerColumn = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
