package beeper

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// Recorder captures the buzzer as mono PCM, one host frame at a time.
type Recorder struct {
	tone    *Tone
	samples []int
	frame   []int16
}

// NewRecorder returns a recorder for a host running at frameRate frames per
// second.
func NewRecorder(frequency, frameRate int) (*Recorder, error) {
	if frameRate <= 0 || frameRate > SampleRate {
		return nil, fmt.Errorf("invalid frame rate %d", frameRate)
	}
	return &Recorder{
		tone:  NewTone(frequency),
		frame: make([]int16, SampleRate/frameRate),
	}, nil
}

// Frame appends one frame of tone or silence.
func (r *Recorder) Frame(active bool) {
	r.tone.SetActive(active)
	r.tone.Fill(r.frame)
	for _, s := range r.frame {
		r.samples = append(r.samples, int(s))
	}
}

// Duration returns the length of the recording so far.
func (r *Recorder) Duration() time.Duration {
	return time.Duration(len(r.samples)) * time.Second / SampleRate
}

// WriteWAV encodes the recording as 16 bit mono PCM.
func (r *Recorder) WriteWAV(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, SampleRate, BitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}

// Save writes the recording to filename.
func (r *Recorder) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := r.WriteWAV(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}
