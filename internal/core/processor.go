package core

// Processor is the virtual machine driven by the frame loop. Instruction
// semantics live entirely behind this interface.
type Processor interface {
	// LoadProgram installs the program image. Called once before the loop starts.
	LoadProgram(rom []byte) error
	// Step executes one instruction cycle.
	Step() error
	// Tick decrements the delay and sound timers once.
	Tick()
	// PixelAt reports whether display pixel (x, y) is lit.
	PixelAt(x, y int) bool
	// UpdateInputs replaces the keypad state.
	UpdateInputs(keys [KeyCount]bool)
	// KeyReleased signals that key went up, for blocking key waits.
	KeyReleased(key int)
	// SoundActive reports whether the sound timer is running.
	SoundActive() bool
}
