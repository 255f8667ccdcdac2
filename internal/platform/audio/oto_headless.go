//go:build headless

package audio

// Open returns a silent beeper; headless builds have no audio device.
func Open(Options) (Beeper, error) {
	return Nop{}, nil
}
