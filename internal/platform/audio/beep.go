// Package audio produces the buzzer tone that plays while the sound timer runs.
package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/vovakirdan/chip8-runner/internal/config"
)

// SampleRate is the output rate in Hz.
const SampleRate = 44100

// Beeper switches the tone on and off. SetActive is called once per frame.
type Beeper interface {
	SetActive(on bool)
	Close() error
}

// Options configures a beeper.
type Options struct {
	Enabled   bool
	Frequency float64 // tone in Hz
	Volume    float64 // peak amplitude, 0..1
}

// OptionsFrom converts the audio section of the configuration.
func OptionsFrom(c config.AudioConfig) Options {
	return Options{
		Enabled:   c.Enabled,
		Frequency: c.Frequency,
		Volume:    c.Volume,
	}
}

// Nop is a silent beeper.
type Nop struct{}

func (Nop) SetActive(bool) {}
func (Nop) Close() error   { return nil }

// SquareWave is an endless stream of mono float32 little-endian samples. It
// outputs silence while inactive.
type SquareWave struct {
	active atomic.Bool
	step   float64
	volume float32
	phase  float64
}

// NewSquareWave creates a generator for freq Hz at the given sample rate.
func NewSquareWave(rate int, freq, volume float64) *SquareWave {
	if rate <= 0 {
		rate = SampleRate
	}
	return &SquareWave{
		step:   freq / float64(rate),
		volume: float32(min(max(volume, 0), 1)),
	}
}

// SetActive turns the tone on or off. It is safe to call while another
// goroutine reads.
func (w *SquareWave) SetActive(on bool) {
	w.active.Store(on)
}

// Active reports whether the tone is on.
func (w *SquareWave) Active() bool {
	return w.active.Load()
}

// Read fills p with whole samples and never fails.
func (w *SquareWave) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	on := w.active.Load()
	for i := 0; i < n; i += 4 {
		var v float32
		if on {
			v = w.volume
			if w.phase >= 0.5 {
				v = -w.volume
			}
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))

		w.phase += w.step
		if w.phase >= 1 {
			w.phase -= math.Floor(w.phase)
		}
	}
	return n, nil
}
