//go:build !headless

package window

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/platform/audio"
	"github.com/vovakirdan/chip8-runner/internal/raster"
	"github.com/vovakirdan/chip8-runner/internal/session"
)

const (
	speedStep  = 50 // Hz per [ or ] press
	titleEvery = 30 // frames between title refreshes
)

// Game adapts a session to ebiten.Game. Every Update runs the queued frame.
type Game struct {
	sess     *session.Session
	loop     *core.Loop
	slot     *core.FrameSlot
	surface  *Surface
	keys     []binding
	beeper   audio.Beeper
	logger   *log.Logger
	shotDir  string
	title    string
	titleIn  int
	paused   bool
	resume   float64
	finished bool
}

func (g *Game) Update() error {
	if g.finished {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.finished = true
		return ebiten.Termination
	}
	g.handleControls()

	in := g.loop.Input()
	for _, b := range g.keys {
		if inpututil.IsKeyJustPressed(b.key) {
			//nolint:errcheck // bindings hold valid keypad values
			in.Press(b.value)
		}
		if inpututil.IsKeyJustReleased(b.key) {
			//nolint:errcheck // bindings hold valid keypad values
			in.Release(b.value)
		}
	}

	g.slot.Run()
	g.beeper.SetActive(g.loop.LastFrame().Sound)

	g.titleIn--
	if g.titleIn <= 0 {
		g.titleIn = titleEvery
		ebiten.SetWindowTitle(g.windowTitle())
	}
	return nil
}

func (g *Game) handleControls() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.paused {
			g.loop.SetClockSpeed(g.resume)
		} else {
			g.resume = g.loop.ClockSpeed()
			g.loop.SetClockSpeed(0)
		}
		g.paused = !g.paused
		g.titleIn = 0

	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.changeSpeed(-speedStep)

	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.changeSpeed(speedStep)

	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if _, err := g.sess.CyclePalette(); err != nil {
			g.logger.Warn("keeping current palette", "error", err)
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		path, err := raster.SaveScreenshot(g.shotDir, g.sess.ROM().Name, g.surface.Snapshot(), 1)
		if err != nil {
			g.logger.Warn("screenshot failed", "error", err)
			return
		}
		g.logger.Info("screenshot saved", "path", path)
	}
}

func (g *Game) changeSpeed(delta float64) {
	speed := g.resume
	if !g.paused {
		speed = g.loop.ClockSpeed()
	}
	speed = max(speed+delta, 0)
	g.resume = speed
	if !g.paused {
		g.loop.SetClockSpeed(speed)
	}
	g.titleIn = 0
}

func (g *Game) windowTitle() string {
	state := fmt.Sprintf("%.0f Hz", g.loop.ClockSpeed())
	if g.paused {
		state = "paused"
	}
	return fmt.Sprintf("%s - %s - %s - %.1f fps", g.title, g.sess.ProcessorID(), state, g.loop.FPS())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.surface.Image(), nil)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.surface.Size()
}
