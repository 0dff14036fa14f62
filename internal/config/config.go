// Package config loads lineminimap settings from TOML.
//
// Every field has a default, so a file only needs the keys it overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/olivier-w/lineminimap/internal/motion"
)

// ErrInvalidConfig is returned for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full set of tunables.
type Config struct {
	Layout    Layout    `toml:"layout"`
	Proximity Proximity `toml:"proximity"`
	Opacity   Opacity   `toml:"opacity"`
	Scroll    Scroll    `toml:"scroll"`
	Spring    Spring    `toml:"spring"`
	Frame     Frame     `toml:"frame"`
	Terminal  Terminal  `toml:"terminal"`
	Server    Server    `toml:"server"`
}

type Layout struct {
	ElementWidth float64 `toml:"element_width"`
	ElementGap   float64 `toml:"element_gap"`
	ElementCount int     `toml:"element_count"`
	BaseHeight   float64 `toml:"base_height"`
	ActiveHeight float64 `toml:"active_height"`
}

type Proximity struct {
	DistanceLimit float64 `toml:"distance_limit"`
	Intensity     float64 `toml:"intensity"`
	MaxScale      float64 `toml:"max_scale"`
	ScaleDivisor  float64 `toml:"scale_divisor"`
}

type Opacity struct {
	Base      float64 `toml:"base"`
	Intensity float64 `toml:"intensity"`
}

type Scroll struct {
	Smoothing         float64 `toml:"smoothing"`
	VelocityThreshold float64 `toml:"velocity_threshold"`
	Epsilon           float64 `toml:"epsilon"`
	// Reset blends scroll-driven targets by scroll velocity.
	Reset bool `toml:"reset"`
	// Step is the raw offset one wheel notch or arrow key moves.
	Step float64 `toml:"step"`
	// PageLength bounds the raw offset, like the height of a page.
	PageLength float64 `toml:"page_length"`
}

type Spring struct {
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	Mass      float64 `toml:"mass"`
	FPS       int     `toml:"fps"`
}

type Frame struct {
	FPS int `toml:"fps"`
}

// Terminal maps layout units onto character cells.
type Terminal struct {
	UnitsPerColumn float64 `toml:"units_per_column"`
	UnitsPerRow    float64 `toml:"units_per_row"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the stock configuration.
func Default() Config {
	o := motion.DefaultOptions()
	return Config{
		Layout: Layout{
			ElementWidth: o.Layout.ElementWidth,
			ElementGap:   o.Layout.ElementGap,
			ElementCount: o.Layout.ElementCount,
			BaseHeight:   o.Layout.BaseHeight,
			ActiveHeight: o.Layout.ActiveHeight,
		},
		Proximity: Proximity{
			DistanceLimit: o.DistanceLimit,
			Intensity:     o.Intensity,
			MaxScale:      o.MaxScale,
			ScaleDivisor:  o.ScaleDivisor,
		},
		Opacity: Opacity{
			Base:      o.OpacityBase,
			Intensity: o.OpacityIntensity,
		},
		Scroll: Scroll{
			Smoothing:         o.ScrollSmoothing,
			VelocityThreshold: o.VelocityThreshold,
			Epsilon:           o.ScrollEpsilon,
			Reset:             true,
			Step:              30,
			PageLength:        1200,
		},
		Spring: Spring{
			Stiffness: o.Spring.Stiffness,
			Damping:   o.Spring.Damping,
			Mass:      o.Spring.Mass,
			FPS:       o.Spring.FPS,
		},
		Frame:    Frame{FPS: o.FrameFPS},
		Terminal: Terminal{UnitsPerColumn: 5, UnitsPerRow: 4},
		Server:   Server{Addr: ":8080"},
	}
}

// Load reads path over the defaults and validates the result. Unknown keys
// are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config: %w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that would break the engine.
func (c Config) Validate() error {
	if _, err := motion.NewLayout(c.layout()); err != nil {
		return fmt.Errorf("config: layout: %w", err)
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"proximity.distance_limit", c.Proximity.DistanceLimit > 0},
		{"proximity.scale_divisor", c.Proximity.ScaleDivisor != 0},
		{"opacity.base", c.Opacity.Base >= 0 && c.Opacity.Base <= 1},
		{"scroll.smoothing", c.Scroll.Smoothing > 0 && c.Scroll.Smoothing <= 1},
		{"scroll.velocity_threshold", c.Scroll.VelocityThreshold > 0},
		{"scroll.epsilon", c.Scroll.Epsilon > 0},
		{"scroll.page_length", c.Scroll.PageLength >= 0},
		{"spring.stiffness", c.Spring.Stiffness > 0},
		{"spring.damping", c.Spring.Damping >= 0},
		{"spring.mass", c.Spring.Mass > 0},
		{"spring.fps", c.Spring.FPS > 0},
		{"frame.fps", c.Frame.FPS > 0},
		// A column wider than the pitch would draw two lines in one cell.
		{"terminal.units_per_column", c.Terminal.UnitsPerColumn > 0 &&
			c.Terminal.UnitsPerColumn <= c.Layout.ElementWidth+c.Layout.ElementGap},
		{"terminal.units_per_row", c.Terminal.UnitsPerRow > 0},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("config: %w: %s", ErrInvalidConfig, check.name)
		}
	}
	return nil
}

func (c Config) layout() motion.Layout {
	return motion.Layout{
		ElementWidth: c.Layout.ElementWidth,
		ElementGap:   c.Layout.ElementGap,
		ElementCount: c.Layout.ElementCount,
		BaseHeight:   c.Layout.BaseHeight,
		ActiveHeight: c.Layout.ActiveHeight,
	}
}

// Options converts the config into engine options.
func (c Config) Options() motion.Options {
	return motion.Options{
		Layout:            c.layout(),
		DistanceLimit:     c.Proximity.DistanceLimit,
		Intensity:         c.Proximity.Intensity,
		MaxScale:          c.Proximity.MaxScale,
		ScaleDivisor:      c.Proximity.ScaleDivisor,
		OpacityBase:       c.Opacity.Base,
		OpacityIntensity:  c.Opacity.Intensity,
		ScrollSmoothing:   c.Scroll.Smoothing,
		ScrollEpsilon:     c.Scroll.Epsilon,
		VelocityThreshold: c.Scroll.VelocityThreshold,
		NoReset:           !c.Scroll.Reset,
		Spring: motion.SpringConfig{
			Stiffness: c.Spring.Stiffness,
			Damping:   c.Spring.Damping,
			Mass:      c.Spring.Mass,
			FPS:       c.Spring.FPS,
		},
		FrameFPS: c.Frame.FPS,
	}
}
