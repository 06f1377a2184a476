// Package config handles command line configuration and logger setup shared
// by all hosts.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"gochip8/pkg/cpu"

	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultIPS is the instruction rate most programs are written for.
	DefaultIPS = 700
	// MaxIPS bounds the rate so one host frame stays cheap.
	MaxIPS = 100000
	// DefaultScale is the window and screenshot scale factor.
	DefaultScale = 10
	// MaxScale bounds window and screenshot size.
	MaxScale = 64

	// FrameRate is the host refresh rate the timers are defined against.
	FrameRate = cpu.TimerFrequency
)

var (
	ErrInvalidIPS   = errors.New("instructions per second out of range")
	ErrInvalidTimer = errors.New("unsupported timer mode")
	ErrInvalidScale = errors.New("scale out of range")
)

// Options holds the settings shared by the hosts.
type Options struct {
	Debug       bool
	Quiet       bool
	IPS         int
	Timer       string
	Seed        uint64
	LegacyShift bool
	Scale       int
}

// DefaultOptions returns the options of an interactive host.
func DefaultOptions() Options {
	return Options{
		IPS:   DefaultIPS,
		Timer: cpu.TimerClocked.String(),
		Scale: DefaultScale,
	}
}

// RegisterFlags binds opts to fs. The current values of opts become the
// flag defaults.
func RegisterFlags(fs *flag.FlagSet, opts *Options) {
	fs.BoolVar(&opts.Debug, "debug", opts.Debug, "enable debug logging, including unrecognized instructions")
	fs.BoolVar(&opts.Quiet, "quiet", opts.Quiet, "only log errors")
	fs.IntVar(&opts.IPS, "ips", opts.IPS, "instructions executed per second")
	fs.StringVar(&opts.Timer, "timer", opts.Timer, "timer mode: step (one tick per instruction) or clock (60 Hz wall clock)")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the CXkk instruction, 0 seeds from the system")
	fs.BoolVar(&opts.LegacyShift, "legacy-shift", opts.LegacyShift, "8xyE always clears VF instead of storing the shifted out bit")
	fs.IntVar(&opts.Scale, "scale", opts.Scale, "pixel scale for the window and screenshots")
}

// Validate normalizes and checks the option values.
func (o *Options) Validate() error {
	if o.IPS < 1 || o.IPS > MaxIPS {
		return fmt.Errorf("%w: %d (1-%d)", ErrInvalidIPS, o.IPS, MaxIPS)
	}
	if o.Scale < 1 || o.Scale > MaxScale {
		return fmt.Errorf("%w: %d (1-%d)", ErrInvalidScale, o.Scale, MaxScale)
	}

	o.Timer = strings.ToLower(strings.TrimSpace(o.Timer))
	if _, err := o.TimerMode(); err != nil {
		return err
	}
	return nil
}

// TimerMode returns the parsed timer mode.
func (o Options) TimerMode() (cpu.TimerMode, error) {
	switch o.Timer {
	case cpu.TimerPerStep.String():
		return cpu.TimerPerStep, nil
	case cpu.TimerClocked.String():
		return cpu.TimerClocked, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: step, clock)", ErrInvalidTimer, o.Timer)
	}
}

// StepsPerFrame returns how many instructions a host runs per 60 Hz frame.
func (o Options) StepsPerFrame() int {
	steps := o.IPS / FrameRate
	if steps < 1 {
		return 1
	}
	return steps
}

// CPUOptions converts validated options into CPU construction options.
func (o Options) CPUOptions(logger *log.Logger) []cpu.Option {
	mode, err := o.TimerMode()
	if err != nil {
		mode = cpu.TimerPerStep
	}

	opts := []cpu.Option{
		cpu.WithTimerMode(mode),
		cpu.WithQuirks(cpu.Quirks{ShiftLeftFlagZero: o.LegacyShift}),
	}
	if o.Seed != 0 {
		opts = append(opts, cpu.WithRandom(cpu.NewRandomSource(o.Seed)))
	}
	if logger != nil {
		opts = append(opts, cpu.WithLogger(logger))
	}
	return opts
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
