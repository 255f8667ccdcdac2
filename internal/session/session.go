// Package session wires a registered processor, a rasterizer and a frame loop
// for one run of a program, and records the run in the history store.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chip8-runner/internal/config"
	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/raster"
	"github.com/vovakirdan/chip8-runner/internal/registry"
	"github.com/vovakirdan/chip8-runner/internal/rom"
	"github.com/vovakirdan/chip8-runner/internal/storage"
)

// Options describes one run.
type Options struct {
	ROM         rom.ROM
	ProcessorID string
	Config      config.Config
	Surface     raster.Surface
	Host        core.Requester
	Clock       core.Clock
	Logger      *log.Logger
	Frontend    string // "window", "terminal" or "ssh"
}

// Session is one run of a program.
type Session struct {
	opts     Options
	loop     *core.Loop
	started  time.Time
	stepErrs uint64
	palette  int // index into Config.PaletteCycle
	recorded bool
}

// New creates the processor, installs the program, builds the rasterizer on
// the surface and wires the frame loop to the host. A surface that cannot be
// initialised is fatal. The loop is not started.
func New(opts Options) (*Session, error) {
	if opts.Surface == nil {
		return nil, errors.New("session: no surface")
	}
	if opts.Host == nil {
		return nil, errors.New("session: no host")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	proc, err := registry.Create(opts.ProcessorID)
	if err != nil {
		return nil, err
	}
	if err := proc.LoadProgram(opts.ROM.Data); err != nil {
		return nil, fmt.Errorf("session: cannot load %s: %w", opts.ROM.Name, err)
	}

	r, err := raster.NewRasterizer(opts.Surface, opts.Config.Layout())
	if err != nil {
		return nil, err
	}
	r.SetPalette(opts.Config.ParsedPalette())

	loop, err := core.NewLoop(proc, r, opts.Host, core.LoopOptions{
		Config: opts.Config.Runtime(),
		Clock:  opts.Clock,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:    opts,
		loop:    loop,
		started: time.Now(),
	}
	loop.OnFrame(s.observe)
	return s, nil
}

// observe counts frames whose burst was cut short. Only the first failure is
// logged above debug level.
func (s *Session) observe(st core.FrameStats) {
	if st.StepErr == nil {
		return
	}
	s.stepErrs++
	if s.stepErrs == 1 {
		s.opts.Logger.Warn("processor step failed", "frame", st.Frame, "error", st.StepErr)
	}
}

// Start resets the clock references and queues the first frame.
func (s *Session) Start() {
	s.started = time.Now()
	s.loop.Start()
	s.opts.Logger.Info("session started",
		"rom", s.opts.ROM.Name,
		"sha1", s.opts.ROM.SHA1,
		"processor", s.opts.ProcessorID,
		"frontend", s.opts.Frontend,
		"clock_speed", s.loop.ClockSpeed(),
	)
}

// CyclePalette moves to the next palette of the configured cycle and installs
// it. If its colours do not parse the current palette stays on screen, the
// error is returned and the next call moves past the bad entry.
func (s *Session) CyclePalette() (config.PaletteConfig, error) {
	cycle := s.opts.Config.PaletteCycle()
	s.palette = (s.palette + 1) % len(cycle)
	p := cycle[s.palette]
	return p, s.loop.SetColors(p.Foreground, p.Background)
}

// Loop returns the frame loop.
func (s *Session) Loop() *core.Loop {
	return s.loop
}

// ROM returns the running program.
func (s *Session) ROM() rom.ROM {
	return s.opts.ROM
}

// ProcessorID returns the registry ID of the processor.
func (s *Session) ProcessorID() string {
	return s.opts.ProcessorID
}

// StepErrors returns how many frames had a step failure.
func (s *Session) StepErrors() uint64 {
	return s.stepErrs
}

// Summary returns the history record for the run so far.
func (s *Session) Summary() storage.Session {
	totals := s.loop.Totals()
	return storage.Session{
		ROMName:   s.opts.ROM.Name,
		ROMSHA1:   s.opts.ROM.SHA1,
		Processor: s.opts.ProcessorID,
		Frontend:  s.opts.Frontend,
		Frames:    totals.Frames,
		Steps:     totals.Steps,
		Ticks:     totals.Ticks,
		Duration:  time.Since(s.started),
	}
}

// Record logs the end of the run and saves it to store. Only the first call
// has any effect; a nil store only logs.
func (s *Session) Record(store *storage.Store) error {
	if s.recorded {
		return nil
	}
	s.recorded = true

	sum := s.Summary()
	s.opts.Logger.Info("session ended",
		"rom", sum.ROMName,
		"frames", sum.Frames,
		"steps", sum.Steps,
		"step_errors", s.stepErrs,
		"duration", sum.Duration.Round(time.Millisecond),
	)

	if store == nil {
		return nil
	}
	if _, err := store.SaveSession(sum); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
