// Package player streams a beeper.Tone to the audio device. It is kept apart
// from package beeper because oto needs cgo and the platform audio headers.
package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"gochip8/pkg/beeper"
)

// oto allows a single context per process.
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   beeper.SampleRate,
			ChannelCount: beeper.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// Player plays a Tone on the audio device.
type Player struct {
	tone   *beeper.Tone
	player *oto.Player
}

// New opens the audio device and starts streaming a silent tone.
func New(frequency int, volume float64) (*Player, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("audio not available: %w", err)
	}

	tone := beeper.NewTone(frequency)
	p := ctx.NewPlayer(tone)
	// ~20ms so the beep follows the sound timer closely.
	p.SetBufferSize(beeper.SampleRate * beeper.Channels * beeper.BitDepth / 8 / 50)
	p.SetVolume(volume)
	p.Play()

	return &Player{
		tone:   tone,
		player: p,
	}, nil
}

// SetActive gates the tone, usually with cpu.SoundActive once per frame.
func (p *Player) SetActive(active bool) {
	p.tone.SetActive(active)
}

// Close stops playback.
func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
