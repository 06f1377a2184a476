//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gochip8/pkg/beeper"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/romloader"

	"github.com/retroenv/retrogolib/log"
)

type headlessOptions struct {
	config.Options

	rom        string
	steps      int
	screenshot string
	wav        string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := runHeadless(opts, logger, os.Stdout); err != nil {
		logger.Error("Run failed", log.String("rom", opts.rom), log.Err(err))
		os.Exit(1)
	}
}

func parseFlags(args []string) (headlessOptions, error) {
	opts := headlessOptions{
		Options: config.DefaultOptions(),
		steps:   1000,
	}
	// Without a display there is no frame pacing, so step coupled timers
	// keep runs reproducible.
	opts.Timer = cpu.TimerPerStep.String()

	fs := flag.NewFlagSet("gochip8", flag.ContinueOnError)
	config.RegisterFlags(fs, &opts.Options)
	fs.StringVar(&opts.rom, "rom", "", "ROM file to run, raw or inside a zip/7z/gz/rar archive")
	fs.IntVar(&opts.steps, "steps", opts.steps, "number of instructions to execute")
	fs.StringVar(&opts.screenshot, "screenshot", "", "write the final display to this PNG file")
	fs.StringVar(&opts.wav, "wav", "", "record the buzzer to this WAV file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.rom == "" && fs.NArg() > 0 {
		opts.rom = fs.Arg(0)
	}
	if opts.rom == "" {
		fs.Usage()
		return opts, errors.New("nothing to do: provide -rom <file>")
	}
	if opts.steps < 0 {
		return opts, fmt.Errorf("invalid step count %d", opts.steps)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runHeadless loads the ROM, executes the requested number of instructions
// and prints the final machine state to out.
func runHeadless(opts headlessOptions, logger *log.Logger, out io.Writer) error {
	rom, name, err := romloader.Load(opts.rom, romloader.Extensions)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	vm := cpu.NewCPU(opts.CPUOptions(logger)...)
	if err := vm.LoadProgram(rom); err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	logger.Debug("Loaded program", log.String("name", name), log.Int("size", len(rom)))

	var rec *beeper.Recorder
	if opts.wav != "" {
		if rec, err = beeper.NewRecorder(beeper.DefaultFrequency, config.FrameRate); err != nil {
			return err
		}
	}

	runErr := runFrames(vm, opts.steps, opts.StepsPerFrame(), rec)

	fmt.Fprintf(out, "run complete (%s): %s\n", name, vm.State())

	if opts.screenshot != "" {
		if err := vm.SnapshotFramebuffer().SaveScreenshot(opts.screenshot, opts.Scale); err != nil {
			return fmt.Errorf("writing screenshot: %w", err)
		}
	}
	if rec != nil {
		if err := rec.Save(opts.wav); err != nil {
			return fmt.Errorf("writing wav: %w", err)
		}
	}
	return runErr
}

// runFrames executes steps instructions in frames of perFrame instructions,
// sampling the buzzer once per frame.
func runFrames(vm *cpu.CPU, steps, perFrame int, rec *beeper.Recorder) error {
	for steps > 0 {
		n := min(perFrame, steps)
		if err := vm.RunSteps(n); err != nil {
			return err
		}
		steps -= n
		if rec != nil {
			rec.Frame(vm.SoundActive())
		}
	}
	return nil
}
