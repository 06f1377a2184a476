//go:build !js

package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

// drawDigitROM draws glyph 8 at (0, 0), starts the buzzer for 3 frames and loops.
var drawDigitROM = []byte{
	0x60, 0x08, // V0 = 8
	0xF0, 0x29, // I = glyph V0
	0x61, 0x00, // V1 = 0
	0xD1, 0x15, // draw 5 rows at (V1, V1)
	0x62, 0x03, // V2 = 3
	0xF2, 0x18, // sound = V2
	0x12, 0x0C, // loop
}

func writeROM(t *testing.T, rom []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "digit.ch8")
	assert.NoError(t, os.WriteFile(path, rom, 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-steps", "20", "-ips", "120", "game.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", opts.rom)
	assert.Equal(t, 20, opts.steps)
	assert.Equal(t, 2, opts.StepsPerFrame())
	assert.Equal(t, "step", opts.Timer)
}

func TestParseFlagsRequiresROM(t *testing.T) {
	_, err := parseFlags(nil)
	assert.Error(t, err, "nothing to do: provide -rom <file>")
}

func TestParseFlagsRejectsBadTimer(t *testing.T) {
	_, err := parseFlags([]string{"-rom", "a.ch8", "-timer", "vsync"})
	assert.True(t, errors.Is(err, config.ErrInvalidTimer))
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	opts, err := parseFlags([]string{
		"-rom", writeROM(t, drawDigitROM),
		"-steps", "6",
		"-scale", "2",
		"-screenshot", filepath.Join(dir, "shot.png"),
	})
	assert.NoError(t, err)

	var out bytes.Buffer
	assert.NoError(t, runHeadless(opts, config.CreateLogger(false, true), &out))

	line := out.String()
	assert.True(t, strings.HasPrefix(line, "run complete (digit.ch8): PC=0x20C "))
	assert.True(t, strings.Contains(line, "V0=08"))
	assert.True(t, strings.Contains(line, "V2=03"))

	f, err := os.Open(filepath.Join(dir, "shot.png"))
	assert.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	assert.NoError(t, err)
	assert.Equal(t, cpu.DisplayWidth*2, img.Bounds().Dx())
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
}

func TestRunHeadlessRecordsWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	opts, err := parseFlags([]string{
		"-rom", writeROM(t, drawDigitROM),
		"-steps", "60",
		"-ips", "600",
		"-wav", path,
	})
	assert.NoError(t, err)
	assert.NoError(t, runHeadless(opts, config.CreateLogger(false, true), &bytes.Buffer{}))

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()
	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	// 60 steps at 10 per frame.
	assert.Equal(t, 6*48000/config.FrameRate, len(buf.Data))
}

func TestRunHeadlessReportsStepError(t *testing.T) {
	opts, err := parseFlags([]string{"-rom", writeROM(t, []byte{0x00, 0xEE})})
	assert.NoError(t, err)

	var out bytes.Buffer
	err = runHeadless(opts, config.CreateLogger(false, true), &out)
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	var stepErr *cpu.StepError
	assert.True(t, errors.As(err, &stepErr))
	assert.Equal(t, uint16(0x200), stepErr.PC)
	assert.True(t, strings.Contains(out.String(), "PC=0x200"))
}

func TestRunHeadlessMissingROM(t *testing.T) {
	opts, err := parseFlags([]string{"-rom", filepath.Join(t.TempDir(), "none.ch8")})
	assert.NoError(t, err)
	err = runHeadless(opts, config.CreateLogger(false, true), &bytes.Buffer{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
