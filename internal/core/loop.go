package core

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chip8-runner/internal/raster"
)

// FrameStats describes what one frame did.
type FrameStats struct {
	Frame     uint64  // 1-based frame number
	Time      float64 // Clock reading in milliseconds
	Steps     int     // Step budget from the scheduler
	Executed  int     // Steps that completed before a failure
	Ticked    bool    // Whether the timers were decremented
	Sound     bool    // Sound timer running after the frame
	StepErr   error   // Step failure that cut the burst short
	RenderErr error   // Upload or draw failure
}

// Totals accumulates counters over the life of a loop.
type Totals struct {
	Frames uint64
	Steps  uint64
	Ticks  uint64
}

// LoopOptions configures a Loop. Zero values pick defaults.
type LoopOptions struct {
	Config RuntimeConfig
	Clock  Clock
	Logger *log.Logger
}

// Loop is the per-refresh driver. It owns the frame state (clock references,
// keypad latch, processor, rasterizer) and a continuation that requeues itself
// through the host after every frame.
type Loop struct {
	clock     Clock
	sched     Scheduler
	state     ClockState
	input     *InputLatch
	proc      Processor
	raster    *raster.Rasterizer
	host      Requester
	logger    *log.Logger
	speed     float64
	fps       FPSMeter
	totals    Totals
	last      FrameStats
	observers []func(FrameStats)
	next      func()
}

// NewLoop wires a processor and a rasterizer to a host. The loop does nothing
// until Start is called.
func NewLoop(proc Processor, r *raster.Rasterizer, host Requester, opts LoopOptions) (*Loop, error) {
	if proc == nil {
		return nil, errors.New("core: loop needs a processor")
	}
	if r == nil {
		return nil, errors.New("core: loop needs a rasterizer")
	}
	if host == nil {
		return nil, errors.New("core: loop needs a host")
	}

	if opts.Clock == nil {
		opts.Clock = NewSystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	l := &Loop{
		clock:  opts.Clock,
		sched:  opts.Config.Scheduler(),
		input:  NewInputLatch(),
		proc:   proc,
		raster: r,
		host:   host,
		logger: opts.Logger,
	}
	l.SetClockSpeed(opts.Config.ClockSpeed)

	l.next = func() {
		l.Frame()
		l.host.RequestFrame(l.next)
	}
	return l, nil
}

// Start resets the clock references to now and queues the first frame.
func (l *Loop) Start() {
	l.state = NewClockState(l.clock.Now())
	l.host.RequestFrame(l.next)
}

// Frame runs one frame: schedule, latch input, tick, step, rasterize, draw.
// Failures are recorded in the returned stats and never escape.
func (l *Loop) Frame() FrameStats {
	t := l.clock.Now()
	stats := FrameStats{Frame: l.totals.Frames + 1, Time: t}

	steps, tick := l.sched.Advance(t, &l.state, l.speed)
	stats.Steps = steps

	l.input.Apply(l.proc)

	if tick {
		l.proc.Tick()
		stats.Ticked = true
		l.totals.Ticks++
	}

	for i := 0; i < steps; i++ {
		if err := l.proc.Step(); err != nil {
			stats.StepErr = err
			l.logger.Debug("step failed, skipping rest of burst",
				"frame", stats.Frame,
				"executed", i,
				"budget", steps,
				"error", err,
			)
			break
		}
		stats.Executed++
	}
	l.totals.Steps += uint64(stats.Executed)

	if err := l.raster.Render(l.proc); err != nil {
		stats.RenderErr = err
		l.logger.Warn("frame not drawn", "frame", stats.Frame, "error", err)
	}

	stats.Sound = l.proc.SoundActive()
	l.totals.Frames++
	l.fps.Frame(t)
	l.last = stats

	for _, fn := range l.observers {
		fn(stats)
	}
	return stats
}

// OnFrame registers fn to be called with the stats of every frame.
func (l *Loop) OnFrame(fn func(FrameStats)) {
	l.observers = append(l.observers, fn)
}

// Input returns the keypad latch hosts feed events into.
func (l *Loop) Input() *InputLatch {
	return l.input
}

// Processor returns the driven processor.
func (l *Loop) Processor() Processor {
	return l.proc
}

// Rasterizer returns the rasterizer.
func (l *Loop) Rasterizer() *raster.Rasterizer {
	return l.raster
}

// ClockSpeed returns the instructions-per-second setting.
func (l *Loop) ClockSpeed() float64 {
	return l.speed
}

// SetClockSpeed changes the instructions-per-second setting. Negative and
// non-finite values pause execution.
func (l *Loop) SetClockSpeed(hz float64) {
	if !(hz > 0) || math.IsInf(hz, 1) {
		hz = 0
	}
	l.speed = hz
}

// SetColors parses and installs a new palette. On a parse error the previous
// palette stays active.
func (l *Loop) SetColors(fg, bg string) error {
	p, err := raster.ParsePalette(fg, bg)
	if err != nil {
		l.logger.Warn("keeping previous palette", "error", err)
		return err
	}
	l.raster.SetPalette(p)
	return nil
}

// ClockState returns the scheduler references.
func (l *Loop) ClockState() ClockState {
	return l.state
}

// LastFrame returns the stats of the most recent frame.
func (l *Loop) LastFrame() FrameStats {
	return l.last
}

// Totals returns the accumulated counters.
func (l *Loop) Totals() Totals {
	return l.totals
}

// FPS returns the measured frame rate.
func (l *Loop) FPS() float64 {
	return l.fps.FPS()
}
