package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/raster"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(DefaultYAML()) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults = %+v\nexpected %+v", cfg, Default())
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() failed: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
clock_speed: 1000
palette:
  foreground: "#1A2B3C"
timer:
  policy: catch_up
  strict: true
display:
  orientation: y_up
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.ClockSpeed != 1000 {
		t.Errorf("ClockSpeed = %v, expected 1000", cfg.ClockSpeed)
	}
	if cfg.Palette.Background != "#000000" {
		t.Errorf("Background = %q, default should survive a partial palette", cfg.Palette.Background)
	}

	rt := cfg.Runtime()
	if rt.Timer != core.TimerCatchUp || !rt.StrictTimer {
		t.Errorf("Runtime() timer = %v strict=%v", rt.Timer, rt.StrictTimer)
	}
	if rt.RefreshRate != 60 {
		t.Errorf("RefreshRate = %d, expected 60", rt.RefreshRate)
	}

	l := cfg.Layout()
	if l.Orientation != raster.YUp || l.Order != raster.ColumnMajor {
		t.Errorf("Layout() = %+v", l)
	}

	p := cfg.ParsedPalette()
	if p.Foreground.Hex() != "#1A2B3C" {
		t.Errorf("Foreground = %s, expected #1A2B3C", p.Foreground.Hex())
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("empty document should yield the defaults")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("clock_sped: 10\n")); err == nil {
		t.Error("Parse() should reject unknown fields")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.ClockSpeed = -1
	cfg.Palette.Foreground = "#GG0000"
	cfg.Timer.Policy = "sometimes"
	cfg.Keymap = "abc"
	cfg.Audio.Volume = 2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{"clock_speed", "#GG0000", "sometimes", "keymap", "volume"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("clock_speed: 700\nmax_steps_per_frame: 50\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, from, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if from != path {
		t.Errorf("source = %q, expected %q", from, path)
	}
	if cfg.ClockSpeed != 700 || cfg.Runtime().MaxSteps != 50 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("palette: {foreground: red}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Error("Load() should fail for an invalid colour")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, from, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if from != "" {
		t.Errorf("source = %q, expected embedded", from)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("expected embedded defaults")
	}
}

func TestLoadPrefersUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	if err := os.MkdirAll(filepath.Join("configs"), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("clock_speed: 100\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ClockSpeed != 100 {
		t.Errorf("ClockSpeed = %v, expected the local configs/ file", cfg.ClockSpeed)
	}

	if err := os.MkdirAll(filepath.Join(home, ".chip8"), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ".chip8", "config.yaml"), []byte("clock_speed: 200\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, _, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ClockSpeed != 200 {
		t.Errorf("ClockSpeed = %v, expected the user config", cfg.ClockSpeed)
	}
}

func TestParsedKeymapFallback(t *testing.T) {
	cfg := Default()
	cfg.Keymap = "too short"
	if got := cfg.ParsedKeymap().String(); got != core.DefaultKeymap {
		t.Errorf("ParsedKeymap() = %q, expected default", got)
	}
}

func TestValidateRejectsNonFiniteClockSpeed(t *testing.T) {
	for _, speed := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		cfg := Default()
		cfg.ClockSpeed = speed
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "finite") {
			t.Errorf("Validate() with clock_speed %v = %v, expected a finite error", speed, err)
		}
	}

	if _, err := Parse([]byte("clock_speed: .inf\n")); err == nil {
		t.Error("Parse() should reject clock_speed: .inf")
	}
	if _, err := Parse([]byte("clock_speed: .nan\n")); err == nil {
		t.Error("Parse() should reject clock_speed: .nan")
	}
}

func TestPalettesReplaceDefaultsAndValidate(t *testing.T) {
	cfg, err := Parse([]byte(`
palettes:
  - {foreground: "#112233", background: "#445566"}
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	cycle := cfg.PaletteCycle()
	if len(cycle) != 2 {
		t.Fatalf("PaletteCycle() has %d entries, expected 2", len(cycle))
	}
	if cycle[0] != cfg.Palette || cycle[1].Foreground != "#112233" {
		t.Errorf("PaletteCycle() = %+v", cycle)
	}

	_, err = Parse([]byte(`
palettes:
  - {foreground: "#112233", background: "blue"}
`))
	var perr *raster.ColorParseError
	if !errors.As(err, &perr) || perr.Input != "blue" {
		t.Errorf("Parse() error = %v, expected a colour error for blue", err)
	}
	if err != nil && !strings.Contains(err.Error(), "palettes[0]") {
		t.Errorf("error %q does not name the entry", err)
	}
}
