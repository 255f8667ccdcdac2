//go:build !headless

package window

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/platform/audio"
	"github.com/vovakirdan/chip8-runner/internal/raster"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/session"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

// Available reports whether this build has a window frontend.
const Available = true

// Options configures a window session.
type Options struct {
	ROM           rom.ROM
	ProcessorID   string
	Config        config.Config
	Store         *storage.Store // optional session history
	Logger        *log.Logger
	ScreenshotDir string
}

// Run opens a window and drives the session until it is closed.
func Run(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	keys, err := bindKeymap(opts.Config.ParsedKeymap())
	if err != nil {
		return err
	}

	scale := max(opts.Config.Display.Scale, 1)
	surface := NewSurface(raster.DisplayWidth*scale, raster.DisplayHeight*scale)
	slot := &core.FrameSlot{}

	sess, err := session.New(session.Options{
		ROM:         opts.ROM,
		ProcessorID: opts.ProcessorID,
		Config:      opts.Config,
		Surface:     surface,
		Host:        slot,
		Logger:      opts.Logger,
		Frontend:    "window",
	})
	if err != nil {
		return err
	}

	beeper, err := audio.Open(audio.OptionsFrom(opts.Config.Audio))
	if err != nil {
		opts.Logger.Warn("running without sound", "error", err)
		beeper = audio.Nop{}
	}
	defer beeper.Close()

	g := &Game{
		sess:    sess,
		loop:    sess.Loop(),
		slot:    slot,
		surface: surface,
		keys:    keys,
		beeper:  beeper,
		logger:  opts.Logger,
		shotDir: opts.ScreenshotDir,
		title:   opts.ROM.Name,
		resume:  opts.Config.ClockSpeed,
	}

	w, h := surface.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(opts.ROM.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	sess.Start()
	runErr := ebiten.RunGame(g)
	if errors.Is(runErr, ebiten.Termination) {
		runErr = nil
	}

	if err := sess.Record(opts.Store); err != nil {
		opts.Logger.Warn("could not save session", "error", err)
	}
	return runErr
}
