//go:build !headless

package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Speaker plays a SquareWave through the system audio device.
type Speaker struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *SquareWave
}

// Open starts the audio device. A disabled configuration yields a Nop. Only one
// device can be open per process.
func Open(opts Options) (Beeper, error) {
	if !opts.Enabled {
		return Nop{}, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: cannot open device: %w", err)
	}
	<-ready

	wave := NewSquareWave(SampleRate, opts.Frequency, opts.Volume)
	player := ctx.NewPlayer(wave)
	player.Play()

	return &Speaker{ctx: ctx, player: player, wave: wave}, nil
}

func (s *Speaker) SetActive(on bool) {
	s.wave.SetActive(on)
}

func (s *Speaker) Close() error {
	return s.player.Close()
}
