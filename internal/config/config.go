// Package config provides YAML-based runner configuration loading and
// validation.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/raster"
)

// Config contains all configuration for the runner.
type Config struct {
	Processor  string          `yaml:"processor"`
	ClockSpeed float64         `yaml:"clock_speed"` // Instructions per second
	Palette    PaletteConfig   `yaml:"palette"`
	Palettes   []PaletteConfig `yaml:"palettes"` // Cycled through at runtime after Palette
	Timer      TimerConfig     `yaml:"timer"`
	MaxSteps   int             `yaml:"max_steps_per_frame"` // 0 = uncapped
	Display    DisplayConfig   `yaml:"display"`
	Keymap     string          `yaml:"keymap"` // 16 keys, keypad order 0x0..0xF
	Terminal   TerminalConfig  `yaml:"terminal"`
	Audio      AudioConfig     `yaml:"audio"`
}

// PaletteConfig holds the two display colours as #RRGGBB strings.
type PaletteConfig struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// TimerConfig selects the 60 Hz timer behaviour.
type TimerConfig struct {
	Policy string `yaml:"policy"` // "reset" or "catch_up"
	Strict bool   `yaml:"strict"` // tick only when more than one period elapsed
}

// DisplayConfig controls the pixel mesh and the window.
type DisplayConfig struct {
	Orientation string `yaml:"orientation"` // "y_down" or "y_up"
	Order       string `yaml:"order"`       // "column_major" or "row_major"
	Scale       int    `yaml:"scale"`       // Window pixels per display pixel
	RefreshRate int    `yaml:"refresh_rate"`
}

// TerminalConfig holds terminal frontend settings.
type TerminalConfig struct {
	HoldFrames int `yaml:"hold_frames"` // Frames a key stays down after a keypress
}

// AudioConfig holds beeper settings.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Frequency float64 `yaml:"frequency"`
	Volume    float64 `yaml:"volume"`
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if math.IsInf(c.ClockSpeed, 0) || math.IsNaN(c.ClockSpeed) {
		errs = append(errs, fmt.Errorf("clock_speed must be finite, got %v", c.ClockSpeed))
	} else if c.ClockSpeed < 0 {
		errs = append(errs, fmt.Errorf("clock_speed must not be negative, got %v", c.ClockSpeed))
	}
	if _, err := raster.ParsePalette(c.Palette.Foreground, c.Palette.Background); err != nil {
		errs = append(errs, err)
	}
	for i, p := range c.Palettes {
		if _, err := raster.ParsePalette(p.Foreground, p.Background); err != nil {
			errs = append(errs, fmt.Errorf("palettes[%d]: %w", i, err))
		}
	}
	if _, err := core.ParseTimerPolicy(c.Timer.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps_per_frame must not be negative, got %d", c.MaxSteps))
	}
	if _, err := raster.ParseOrientation(c.Display.Orientation); err != nil {
		errs = append(errs, err)
	}
	if _, err := raster.ParseOrder(c.Display.Order); err != nil {
		errs = append(errs, err)
	}
	if c.Display.Scale <= 0 {
		errs = append(errs, fmt.Errorf("display.scale must be positive, got %d", c.Display.Scale))
	}
	if c.Display.RefreshRate <= 0 {
		errs = append(errs, fmt.Errorf("display.refresh_rate must be positive, got %d", c.Display.RefreshRate))
	}
	if _, err := core.ParseKeymap(c.Keymap); err != nil {
		errs = append(errs, err)
	}
	if c.Terminal.HoldFrames < 1 {
		errs = append(errs, fmt.Errorf("terminal.hold_frames must be at least 1, got %d", c.Terminal.HoldFrames))
	}
	if c.Audio.Frequency < 0 {
		errs = append(errs, fmt.Errorf("audio.frequency must not be negative, got %v", c.Audio.Frequency))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// Runtime returns the frame loop settings.
func (c Config) Runtime() core.RuntimeConfig {
	policy, _ := core.ParseTimerPolicy(c.Timer.Policy)
	return core.RuntimeConfig{
		ClockSpeed:  c.ClockSpeed,
		Timer:       policy,
		StrictTimer: c.Timer.Strict,
		MaxSteps:    c.MaxSteps,
		RefreshRate: c.Display.RefreshRate,
	}
}

// Layout returns the mesh layout.
func (c Config) Layout() raster.Layout {
	l := raster.DefaultLayout()
	l.Orientation, _ = raster.ParseOrientation(c.Display.Orientation)
	l.Order, _ = raster.ParseOrder(c.Display.Order)
	return l
}

// ParsedPalette returns the configured palette, or the default one if the
// colours do not parse.
func (c Config) ParsedPalette() raster.Palette {
	p, err := raster.ParsePalette(c.Palette.Foreground, c.Palette.Background)
	if err != nil {
		return raster.DefaultPalette
	}
	return p
}

// PaletteCycle returns the palettes cycled through at runtime, starting with
// Palette.
func (c Config) PaletteCycle() []PaletteConfig {
	return append([]PaletteConfig{c.Palette}, c.Palettes...)
}

// ParsedKeymap returns the configured keymap, or the default one if it does
// not parse.
func (c Config) ParsedKeymap() core.Keymap {
	k, err := core.ParseKeymap(c.Keymap)
	if err != nil {
		k, _ = core.ParseKeymap(core.DefaultKeymap)
	}
	return k
}
