// Package beeper turns the CHIP-8 sound timer into audio. The machine only
// knows whether the buzzer is on; this package supplies the waveform.
package beeper

import (
	"io"
	"sync/atomic"
)

const (
	// SampleRate is the output rate in Hz.
	SampleRate = 48000
	// DefaultFrequency is the buzzer pitch in Hz.
	DefaultFrequency = 440
	// Channels is the number of interleaved output channels.
	Channels = 2
	// BitDepth is the sample width in bits.
	BitDepth = 16

	amplitude = 6000
)

// Tone is a square wave generator gated by an active flag. Read may be
// called from an audio goroutine while SetActive is called from the emulator.
type Tone struct {
	active    atomic.Bool
	frequency int
	phase     int // position within one period, in samples
}

// NewTone returns a silent tone at the given frequency. A frequency of zero
// or less selects DefaultFrequency.
func NewTone(frequency int) *Tone {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	return &Tone{frequency: frequency}
}

// SetActive switches the buzzer on or off.
func (t *Tone) SetActive(active bool) {
	t.active.Store(active)
}

// Active reports whether the buzzer is on.
func (t *Tone) Active() bool {
	return t.active.Load()
}

// Frequency returns the pitch in Hz.
func (t *Tone) Frequency() int {
	return t.frequency
}

// next returns the next mono sample and advances the phase. The phase keeps
// running while silent so toggling does not click at a fixed position.
func (t *Tone) next(active bool) int16 {
	period := SampleRate / t.frequency
	var sample int16
	if active {
		sample = amplitude
		if t.phase >= period/2 {
			sample = -amplitude
		}
	}
	t.phase++
	if t.phase >= period {
		t.phase = 0
	}
	return sample
}

// Fill writes len(samples) mono samples.
func (t *Tone) Fill(samples []int16) {
	active := t.active.Load()
	for i := range samples {
		samples[i] = t.next(active)
	}
}

// Read implements io.Reader, producing whole 16 bit little endian stereo
// frames. A non-empty p shorter than one frame yields io.ErrShortBuffer.
func (t *Tone) Read(p []byte) (int, error) {
	const frameSize = Channels * BitDepth / 8
	if len(p) > 0 && len(p) < frameSize {
		return 0, io.ErrShortBuffer
	}
	active := t.active.Load()
	n := len(p) / frameSize * frameSize
	for i := 0; i < n; i += frameSize {
		s := t.next(active)
		p[i] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return n, nil
}
