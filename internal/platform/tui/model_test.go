package tui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/core"
	_ "github.com/vovakirdan/chip8-runner/internal/processor"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

type modelFixture struct {
	model Model
	clock *core.ManualClock
}

func newModelFixture(t *testing.T, mutate func(*Options)) *modelFixture {
	t.Helper()

	program, err := rom.FromBytes("stripes", bytes.Repeat([]byte{0xFF}, 256))
	if err != nil {
		t.Fatalf("FromBytes() failed: %v", err)
	}

	clock := &core.ManualClock{}
	opts := Options{
		ROM:           program,
		ProcessorID:   "viewer",
		Config:        config.Default(),
		Clock:         clock,
		Renderer:      lipgloss.NewRenderer(io.Discard),
		ScreenshotDir: t.TempDir(),
	}
	if mutate != nil {
		mutate(&opts)
	}

	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	m.Init()
	return &modelFixture{model: m, clock: clock}
}

func (f *modelFixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, _ := f.model.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	f.model = m
}

func (f *modelFixture) frame(t *testing.T, ms float64) {
	t.Helper()
	f.clock.Advance(ms)
	f.send(t, FrameMsg{ID: f.model.id})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelUnknownProcessor(t *testing.T) {
	program, _ := rom.FromBytes("x", []byte{1})
	if _, err := NewModel(Options{ROM: program, ProcessorID: "nope", Config: config.Default()}); err == nil {
		t.Error("NewModel() should fail for an unknown processor")
	}
}

func TestModelRunsFrames(t *testing.T) {
	f := newModelFixture(t, nil)

	f.frame(t, 20)

	totals := f.model.Loop().Totals()
	if totals.Frames != 1 {
		t.Errorf("Frames = %d, expected 1", totals.Frames)
	}
	if totals.Steps != 10 {
		t.Errorf("Steps = %d, expected 10 at 500 Hz over 20ms", totals.Steps)
	}

	img := f.model.Surface().Image()
	if img.RGBAAt(0, 0).R != 0xFF {
		t.Error("first revealed pixel should be lit")
	}
	if img.RGBAAt(63, 31).R != 0 {
		t.Error("unrevealed pixel should be background")
	}
}

func TestModelIgnoresForeignFrames(t *testing.T) {
	f := newModelFixture(t, nil)

	f.clock.Advance(20)
	f.send(t, FrameMsg{ID: f.model.id + 1000})
	if got := f.model.Loop().Totals().Frames; got != 0 {
		t.Errorf("Frames = %d after a foreign frame message", got)
	}
}

func TestModelHoldsKeysForConfiguredFrames(t *testing.T) {
	f := newModelFixture(t, func(o *Options) {
		o.Config.Terminal.HoldFrames = 2
	})
	in := f.model.Loop().Input()

	f.send(t, runes("x")) // keypad 0
	if !in.Pressed(0) {
		t.Fatal("key 0 should be down after a keypress")
	}

	f.frame(t, 16)
	if !in.Pressed(0) {
		t.Error("key 0 released too early")
	}

	f.frame(t, 16)
	if in.Pressed(0) {
		t.Error("key 0 should be released after 2 frames")
	}
	if in.LastReleased() != 0 {
		t.Errorf("LastReleased() = %d, expected 0", in.LastReleased())
	}

	// The viewer beeps when the release selects a page.
	f.frame(t, 16)
	if !f.model.Loop().LastFrame().Sound {
		t.Error("release should reach the processor on the next frame")
	}
}

func TestModelIgnoresUnmappedKeys(t *testing.T) {
	f := newModelFixture(t, nil)
	f.send(t, runes("p"))
	if f.model.Loop().Input().State() != [core.KeyCount]bool{} {
		t.Error("unmapped key changed the keypad")
	}
}

func TestModelCyclesPalette(t *testing.T) {
	f := newModelFixture(t, func(o *Options) {
		o.Config.Palettes = []config.PaletteConfig{
			{Foreground: "#00FF00", Background: "#000080"},
			{Foreground: "not-a-colour", Background: "#000000"},
		}
	})
	tab := tea.KeyMsg{Type: tea.KeyTab}

	f.send(t, tab)
	f.frame(t, 20)
	img := f.model.Surface().Image()
	if got := img.RGBAAt(0, 0); got.R != 0 || got.G != 0xFF {
		t.Errorf("lit pixel = %v, expected green", got)
	}
	if got := img.RGBAAt(63, 31); got.B != 0x80 {
		t.Errorf("background pixel = %v, expected navy", got)
	}

	f.send(t, tab)
	if !strings.Contains(f.model.status, "bad palette") {
		t.Errorf("status = %q, expected a bad palette message", f.model.status)
	}
	if got := f.model.Loop().Rasterizer().Palette().Foreground.Hex(); got != "#00FF00" {
		t.Errorf("foreground = %s, expected the previous palette kept", got)
	}
	f.frame(t, 20)
	if got := f.model.Surface().Image().RGBAAt(0, 0); got.G != 0xFF || got.R != 0 {
		t.Errorf("lit pixel = %v after a bad palette, expected green", got)
	}
}

func TestModelPauseAndSpeed(t *testing.T) {
	f := newModelFixture(t, nil)

	f.send(t, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !f.model.Paused() || f.model.Loop().ClockSpeed() != 0 {
		t.Fatalf("paused=%v speed=%v", f.model.Paused(), f.model.Loop().ClockSpeed())
	}

	f.send(t, runes("]"))
	if f.model.Loop().ClockSpeed() != 0 {
		t.Error("speed change should not resume execution")
	}

	f.send(t, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := f.model.Loop().ClockSpeed(); got != 550 {
		t.Errorf("ClockSpeed() = %v after resume, expected 550", got)
	}

	for i := 0; i < 20; i++ {
		f.send(t, runes("["))
	}
	if got := f.model.Loop().ClockSpeed(); got != 0 {
		t.Errorf("ClockSpeed() = %v, expected clamp at 0", got)
	}
}

func TestModelQuitSavesSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	f := newModelFixture(t, func(o *Options) { o.Store = store })
	for i := 0; i < 3; i++ {
		f.frame(t, 16)
	}
	f.send(t, tea.KeyMsg{Type: tea.KeyEscape})

	if !f.model.IsQuitting() {
		t.Error("esc should quit")
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.ROMName != "stripes" || s.Frontend != "terminal" || s.Processor != "viewer" {
		t.Errorf("session = %+v", s)
	}
	if s.Frames != 3 {
		t.Errorf("Frames = %d, expected 3", s.Frames)
	}

	// finish is idempotent
	f.model.finish()
	sessions, _ = store.RecentSessions(10)
	if len(sessions) != 1 {
		t.Errorf("session saved %d times", len(sessions))
	}
}

func TestEmbeddedModelGoesBack(t *testing.T) {
	f := newModelFixture(t, func(o *Options) { o.Embedded = true })
	f.send(t, tea.KeyMsg{Type: tea.KeyEscape})

	if !f.model.BackToMenu() || f.model.IsQuitting() {
		t.Errorf("back=%v quitting=%v", f.model.BackToMenu(), f.model.IsQuitting())
	}

	f.frame(t, 16)
	if got := f.model.Loop().Totals().Frames; got != 0 {
		t.Errorf("closed model ran %d frames", got)
	}
}

func TestModelScreenshot(t *testing.T) {
	dir := t.TempDir()
	f := newModelFixture(t, func(o *Options) {
		o.ScreenshotDir = dir
		o.Config.Display.Scale = 3
	})
	f.frame(t, 20)

	path, err := f.model.SaveScreenshot()
	if err != nil {
		t.Fatalf("SaveScreenshot() failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 192 || b.Dy() != 96 {
		t.Errorf("screenshot is %dx%d, expected 192x96", b.Dx(), b.Dy())
	}
}

func TestModelView(t *testing.T) {
	f := newModelFixture(t, nil)
	f.send(t, tea.WindowSizeMsg{Width: 140, Height: 40})
	f.frame(t, 16)

	view := f.model.View()
	if !strings.Contains(view, "stripes") {
		t.Error("view should name the program")
	}
	if !strings.Contains(view, "500 Hz") {
		t.Error("view should show the clock speed")
	}
	if strings.Count(view, upperHalf) != 128*32 {
		t.Errorf("view has %d half blocks, expected %d at scale 2", strings.Count(view, upperHalf), 128*32)
	}
}

func TestImageRenderer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})

	ir := NewImageRenderer(lipgloss.NewRenderer(io.Discard))
	out := ir.Render(img, 1)
	if strings.Count(out, upperHalf) != 2 || strings.Contains(out, "\n") {
		t.Errorf("Render() = %q, expected one row of 2 cells", out)
	}

	out = ir.Render(img, 2)
	if strings.Count(out, upperHalf) != 8 || strings.Count(out, "\n") != 1 {
		t.Errorf("Render() at scale 2 = %q, expected 2 rows of 4 cells", out)
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       int
	}{
		{130, 40, 2},
		{200, 60, 3},
		{10, 5, 1},
		{64, 16, 1},
	}
	for _, tt := range tests {
		if got := FitScale(64, 32, tt.cols, tt.rows); got != tt.want {
			t.Errorf("FitScale(64, 32, %d, %d) = %d, expected %d", tt.cols, tt.rows, got, tt.want)
		}
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{R: 0x1A, G: 0x2B, B: 0x3C}); got != "#1A2B3C" {
		t.Errorf("hexColor() = %q", got)
	}
}
