package processor

import (
	"errors"
	"testing"

	"github.com/vovakirdan/chip8-runner/internal/core"
	"github.com/vovakirdan/chip8-runner/internal/registry"
	"github.com/vovakirdan/chip8-runner/internal/rom"
)

func loadedViewer(t *testing.T, data []byte) *Viewer {
	t.Helper()
	v := NewViewer()
	if err := v.LoadProgram(data); err != nil {
		t.Fatalf("LoadProgram() failed: %v", err)
	}
	return v
}

func stepN(t *testing.T, v *Viewer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := v.Step(); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
}

func TestViewerRegistered(t *testing.T) {
	if !registry.Exists("viewer") {
		t.Fatal("viewer not registered")
	}
	p, err := registry.Create("viewer")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, ok := p.(*Viewer); !ok {
		t.Errorf("Create() returned %T", p)
	}
}

func TestViewerStepWithoutProgram(t *testing.T) {
	v := NewViewer()
	if err := v.Step(); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Step() error = %v, expected ErrNoProgram", err)
	}
}

func TestViewerLoadProgramLimits(t *testing.T) {
	v := NewViewer()
	if err := v.LoadProgram(nil); !errors.Is(err, rom.ErrEmptyROM) {
		t.Errorf("LoadProgram(nil) error = %v", err)
	}
	if err := v.LoadProgram(make([]byte, rom.MaxSize+1)); !errors.Is(err, rom.ErrROMTooLarge) {
		t.Errorf("LoadProgram(too large) error = %v", err)
	}
}

func TestViewerRevealsBitsInOrder(t *testing.T) {
	v := loadedViewer(t, []byte{0xA0})

	if v.PixelAt(0, 0) {
		t.Error("nothing should be visible before the first step")
	}

	stepN(t, v, 8)
	want := []bool{true, false, true, false, false, false, false, false}
	for x, w := range want {
		if got := v.PixelAt(x, 0); got != w {
			t.Errorf("PixelAt(%d, 0) = %v, expected %v", x, got, w)
		}
	}

	if v.PixelAt(-1, 0) || v.PixelAt(64, 0) || v.PixelAt(0, 32) {
		t.Error("out of range pixels should be unset")
	}
}

func TestViewerSecondRow(t *testing.T) {
	data := make([]byte, 16)
	data[8] = 0x80 // first bit of row 1
	v := loadedViewer(t, data)

	stepN(t, v, 64)
	if v.PixelAt(0, 1) {
		t.Error("row 1 should not be revealed after 64 steps")
	}
	stepN(t, v, 1)
	if !v.PixelAt(0, 1) {
		t.Error("PixelAt(0, 1) should be set after 65 steps")
	}
}

func TestViewerHoldAndAdvance(t *testing.T) {
	v := loadedViewer(t, make([]byte, PageBytes*2))

	stepN(t, v, PageBits)
	if v.Revealed() != PageBits {
		t.Fatalf("Revealed() = %d, expected %d", v.Revealed(), PageBits)
	}
	delay, _ := v.Timers()
	if delay != HoldTicks {
		t.Errorf("delay = %d, expected %d", delay, HoldTicks)
	}

	stepN(t, v, 10)
	if v.Steps() != PageBits {
		t.Errorf("Steps() = %d, steps should stall on a finished page", v.Steps())
	}

	for i := 0; i < HoldTicks; i++ {
		v.Tick()
	}
	if v.Page() != 1 {
		t.Errorf("Page() = %d after hold, expected 1", v.Page())
	}
	if v.Revealed() != 0 {
		t.Errorf("Revealed() = %d on a new page, expected 0", v.Revealed())
	}
	if !v.SoundActive() {
		t.Error("page change should start the beep")
	}
}

func TestViewerKeyReleaseSelectsPage(t *testing.T) {
	v := loadedViewer(t, make([]byte, PageBytes*3))

	v.KeyReleased(2)
	if v.Page() != 2 {
		t.Errorf("Page() = %d, expected 2", v.Page())
	}

	v.KeyReleased(4) // wraps around three pages
	if v.Page() != 1 {
		t.Errorf("Page() = %d, expected 1", v.Page())
	}

	v.KeyReleased(core.KeyCount)
	if v.Page() != 1 {
		t.Error("out of range key should be ignored")
	}
}

func TestViewerHeldKeyPauses(t *testing.T) {
	v := loadedViewer(t, []byte{0xFF})

	var keys [core.KeyCount]bool
	keys[5] = true
	v.UpdateInputs(keys)
	stepN(t, v, 4)
	if v.Revealed() != 0 {
		t.Errorf("Revealed() = %d while a key is held", v.Revealed())
	}

	v.UpdateInputs([core.KeyCount]bool{})
	stepN(t, v, 4)
	if v.Revealed() != 4 {
		t.Errorf("Revealed() = %d after release, expected 4", v.Revealed())
	}
}

func TestViewerSoundTimer(t *testing.T) {
	v := loadedViewer(t, []byte{1})
	v.SelectPage(0)

	for i := 0; i < BeepTicks-1; i++ {
		v.Tick()
	}
	if !v.SoundActive() {
		t.Error("sound should still be active one tick before expiry")
	}
	v.Tick()
	if v.SoundActive() {
		t.Error("sound should stop when the timer reaches zero")
	}
}
