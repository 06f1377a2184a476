package config

import (
	"errors"
	"flag"
	"io"
	"testing"

	"gochip8/pkg/cpu"

	"github.com/retroenv/retrogolib/assert"
)

func parse(t *testing.T, defaults Options, args ...string) Options {
	t.Helper()
	opts := defaults
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	RegisterFlags(fs, &opts)
	assert.NoError(t, fs.Parse(args))
	return opts
}

func TestRegisterFlagsDefaults(t *testing.T) {
	opts := parse(t, DefaultOptions())
	assert.NoError(t, opts.Validate())
	assert.Equal(t, DefaultIPS, opts.IPS)
	assert.Equal(t, "clock", opts.Timer)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.Equal(t, uint64(0), opts.Seed)
	assert.False(t, opts.LegacyShift)
}

func TestRegisterFlagsKeepsCallerDefaults(t *testing.T) {
	defaults := DefaultOptions()
	defaults.Timer = "step"
	opts := parse(t, defaults)
	assert.Equal(t, "step", opts.Timer)
}

func TestRegisterFlagsParse(t *testing.T) {
	opts := parse(t, DefaultOptions(),
		"-debug", "-ips", "1200", "-timer", " STEP ", "-seed", "42", "-legacy-shift", "-scale", "4")
	assert.NoError(t, opts.Validate())
	assert.True(t, opts.Debug)
	assert.Equal(t, 1200, opts.IPS)
	assert.Equal(t, "step", opts.Timer)
	assert.Equal(t, uint64(42), opts.Seed)
	assert.True(t, opts.LegacyShift)
	assert.Equal(t, 4, opts.Scale)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   error
	}{
		{"zero ips", func(o *Options) { o.IPS = 0 }, ErrInvalidIPS},
		{"huge ips", func(o *Options) { o.IPS = MaxIPS + 1 }, ErrInvalidIPS},
		{"zero scale", func(o *Options) { o.Scale = 0 }, ErrInvalidScale},
		{"unknown timer", func(o *Options) { o.Timer = "vsync" }, ErrInvalidTimer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.Validate()
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestStepsPerFrame(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 11, opts.StepsPerFrame())
	opts.IPS = 30
	assert.Equal(t, 1, opts.StepsPerFrame())
}

// TestCPUOptionsSeedIsDeterministic runs CXFF on two machines built from the
// same seeded options.
func TestCPUOptionsSeedIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Timer = "step"
	opts.Seed = 7

	rom := []byte{0xC0, 0xFF, 0xC1, 0xFF, 0xC2, 0xFF}
	run := func() [cpu.RegisterCount]byte {
		c := cpu.NewCPU(opts.CPUOptions(CreateLogger(false, true))...)
		assert.NoError(t, c.LoadProgram(rom))
		assert.NoError(t, c.RunSteps(3))
		return c.State().V
	}
	assert.Equal(t, run(), run())
}

func TestCPUOptionsLegacyShift(t *testing.T) {
	opts := DefaultOptions()
	opts.LegacyShift = true

	c := cpu.NewCPU(opts.CPUOptions(nil)...)
	assert.NoError(t, c.LoadProgram([]byte{0x60, 0x80, 0x80, 0x0E}))
	assert.NoError(t, c.RunSteps(2))
	state := c.State()
	assert.Equal(t, byte(0), state.V[0])
	assert.Equal(t, byte(0), state.V[cpu.RegF])
}

func TestCreateLogger(t *testing.T) {
	assert.True(t, CreateLogger(true, false) != nil)
	assert.True(t, CreateLogger(false, true) != nil)
	assert.True(t, CreateLogger(false, false) != nil)
}
