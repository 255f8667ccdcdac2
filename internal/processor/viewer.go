// Package processor contains the processors shipped with the runner.
//
// The viewer processor does not decode instructions. It shows the loaded
// program image as a bit plane, one page of the display at a time, and
// exercises every part of the frame contract: steps reveal bits, the 60 Hz
// timers drive page advance and the beeper, and the keypad selects pages.
package processor

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/raster"
	"github.com/vovakirdan/chip8-runner/internal/registry"
	"github.com/vovakirdan/chip8-runner/internal/rom"
)

// ErrNoProgram is returned by Step before a program is loaded.
var ErrNoProgram = errors.New("processor: no program loaded")

const (
	// PageBits is the number of program bits shown on one screen.
	PageBits = raster.DisplayWidth * raster.DisplayHeight
	// PageBytes is the number of program bytes shown on one screen.
	PageBytes = PageBits / 8

	// HoldTicks is how long a fully revealed page stays up before the
	// viewer moves on.
	HoldTicks = 120
	// BeepTicks is the sound timer value loaded on a page change.
	BeepTicks = 6
)

func init() {
	registry.Register("viewer", "Program image viewer", func() core.Processor {
		return NewViewer()
	})
}

// Viewer reveals a program image bit by bit.
type Viewer struct {
	program []byte
	page    int
	cursor  int // bits of the current page revealed so far
	delay   uint8
	sound   uint8
	keys    [core.KeyCount]bool
	steps   uint64
}

// NewViewer creates a viewer with no program.
func NewViewer() *Viewer {
	return &Viewer{}
}

// LoadProgram installs the program image and shows its first page.
func (v *Viewer) LoadProgram(data []byte) error {
	if len(data) == 0 {
		return rom.ErrEmptyROM
	}
	if len(data) > rom.MaxSize {
		return fmt.Errorf("%w: %d bytes", rom.ErrROMTooLarge, len(data))
	}

	v.program = append([]byte(nil), data...)
	v.page = 0
	v.cursor = 0
	v.delay = 0
	v.sound = 0
	return nil
}

// Step reveals the next bit of the current page. Nothing moves while a key is
// held or while a finished page is on hold.
func (v *Viewer) Step() error {
	if v.program == nil {
		return ErrNoProgram
	}
	if v.anyHeld() || v.delay > 0 || v.cursor >= PageBits {
		return nil
	}

	v.cursor++
	v.steps++
	if v.cursor == PageBits {
		v.delay = HoldTicks
	}
	return nil
}

// Tick decrements both timers. When the hold timer runs out on a finished page
// the viewer moves to the next one.
func (v *Viewer) Tick() {
	if v.sound > 0 {
		v.sound--
	}
	if v.delay > 0 {
		v.delay--
		if v.delay == 0 && v.cursor >= PageBits {
			v.SelectPage(v.page + 1)
		}
	}
}

// PixelAt reports whether the program bit under (x, y) is set and revealed.
func (v *Viewer) PixelAt(x, y int) bool {
	if x < 0 || x >= raster.DisplayWidth || y < 0 || y >= raster.DisplayHeight {
		return false
	}

	bit := y*raster.DisplayWidth + x
	if bit >= v.cursor {
		return false
	}

	offset := v.page*PageBytes + bit/8
	if offset >= len(v.program) {
		return false
	}
	return v.program[offset]&(0x80>>(bit%8)) != 0
}

// UpdateInputs stores the keypad state for this frame.
func (v *Viewer) UpdateInputs(keys [core.KeyCount]bool) {
	v.keys = keys
}

// KeyReleased selects the page numbered by the released key.
func (v *Viewer) KeyReleased(key int) {
	if key < 0 || key >= core.KeyCount {
		return
	}
	v.SelectPage(key)
}

// SoundActive reports whether the sound timer is running.
func (v *Viewer) SoundActive() bool {
	return v.sound > 0
}

// SelectPage shows page n, wrapping around the program, and restarts the
// reveal with a short beep.
func (v *Viewer) SelectPage(n int) {
	pages := v.Pages()
	if pages == 0 {
		return
	}
	v.page = ((n % pages) + pages) % pages
	v.cursor = 0
	v.delay = 0
	v.sound = BeepTicks
}

// Pages returns how many screens the program spans.
func (v *Viewer) Pages() int {
	return (len(v.program) + PageBytes - 1) / PageBytes
}

// Page returns the page on screen.
func (v *Viewer) Page() int {
	return v.page
}

// Revealed returns how many bits of the current page are visible.
func (v *Viewer) Revealed() int {
	return v.cursor
}

// Timers returns the delay and sound timer values.
func (v *Viewer) Timers() (delay, sound uint8) {
	return v.delay, v.sound
}

// Steps returns the number of bits revealed since the program was loaded.
func (v *Viewer) Steps() uint64 {
	return v.steps
}

func (v *Viewer) anyHeld() bool {
	for _, k := range v.keys {
		if k {
			return true
		}
	}
	return false
}
