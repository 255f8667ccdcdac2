package config

import (
	_ "embed"
)

//go:embed defaults/chip8.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Processor:  "viewer",
		ClockSpeed: 500,
		Palette: PaletteConfig{
			Foreground: "#FFFFFF",
			Background: "#000000",
		},
		Palettes: []PaletteConfig{
			{Foreground: "#33FF66", Background: "#0A1A0A"},
			{Foreground: "#FFB000", Background: "#1A1000"},
			{Foreground: "#000000", Background: "#FFFFFF"},
		},
		Timer: TimerConfig{
			Policy: "reset",
			Strict: false,
		},
		MaxSteps: 0,
		Display: DisplayConfig{
			Orientation: "y_down",
			Order:       "column_major",
			Scale:       10,
			RefreshRate: 60,
		},
		Keymap: "x123qweasdzc4rfv",
		Terminal: TerminalConfig{
			HoldFrames: 6,
		},
		Audio: AudioConfig{
			Enabled:   true,
			Frequency: 440,
			Volume:    0.2,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
