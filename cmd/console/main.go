package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jroimartin/gocui"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/grid"
	"gochip8/pkg/keymap"
	"gochip8/pkg/romloader"
)

// keyHold is how long a key stays down after a terminal key press. Terminals
// only report presses, auto repeat extends the hold.
const keyHold = 150 * time.Millisecond

// halfBlocks indexes by top pixel | bottom pixel<<1.
var halfBlocks = [4]rune{' ', '▀', '▄', '█'}

// renderHalfBlocks draws two display rows per text line.
func renderHalfBlocks(fb *cpu.Framebuffer) string {
	var sb strings.Builder
	cells := cpu.DisplayWidth * cpu.DisplayHeight / 2
	for i := 0; i < cells; i++ {
		x, y := grid.GetGridCoords(i, cpu.DisplayWidth)
		var idx int
		if fb.Pixel(x, 2*y) {
			idx |= 1
		}
		if fb.Pixel(x, 2*y+1) {
			idx |= 2
		}
		sb.WriteRune(halfBlocks[idx])
		if x == cpu.DisplayWidth-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// console runs the machine and owns the terminal views.
type console struct {
	vm      *cpu.CPU
	opts    config.Options
	rom     []byte
	romName string

	mu        sync.Mutex
	paused    bool
	status    string
	keyTimers [16]*time.Timer
	done      chan struct{}
}

func (c *console) layout(g *gocui.Gui) error {
	maxX, _ := g.Size()
	displayBottom := cpu.DisplayHeight/2 + 1
	if v, err := g.SetView("display", 0, 0, cpu.DisplayWidth+1, displayBottom); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = c.romName
	}

	if v, err := g.SetView("registers", cpu.DisplayWidth+2, 0, maxX-1, displayBottom); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}

	if v, err := g.SetView("status", 0, displayBottom+1, maxX-1, displayBottom+4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		v.Wrap = true
	}
	return nil
}

// redraw refreshes all views from the machine state. It runs on the gocui
// main loop through g.Update.
func (c *console) redraw(g *gocui.Gui) error {
	v, err := g.View("display")
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, renderHalfBlocks(c.vm.SnapshotFramebuffer()))

	if v, err = g.View("registers"); err != nil {
		return err
	}
	v.Clear()
	writeRegisters(v, c.vm.State())

	if v, err = g.View("status"); err != nil {
		return err
	}
	v.Clear()
	c.mu.Lock()
	status, paused := c.status, c.paused
	c.mu.Unlock()
	if paused && status == "" {
		status = "paused"
	}
	fmt.Fprintf(v, "%s\n1234/QWER/ASDF/ZXCV keypad  p pause  F5 reload  ^C quit", status)
	return nil
}

func writeRegisters(v *gocui.View, s cpu.State) {
	for i, r := range s.V {
		fmt.Fprintf(v, "V%X=%02X", i, r)
		if i%2 == 1 {
			fmt.Fprintln(v)
		} else {
			fmt.Fprint(v, " ")
		}
	}
	fmt.Fprintf(v, "PC=%03X I=%03X\nDT=%02X ST=%02X\nSP=%d", s.PC, s.I, s.Delay, s.Sound, len(s.Stack))
}

// run steps the machine once per frame until done is closed.
func (c *console) run(g *gocui.Gui) {
	ticker := time.NewTicker(time.Second / config.FrameRate)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		paused := c.paused
		c.mu.Unlock()
		if !paused {
			if err := c.vm.RunSteps(c.opts.StepsPerFrame()); err != nil {
				c.mu.Lock()
				c.paused = true
				c.status = err.Error()
				c.mu.Unlock()
			}
		}
		g.Update(c.redraw)
	}
}

// pressKey marks index down and schedules the release.
func (c *console) pressKey(index int) {
	_ = c.vm.SetKeyDown(index)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.keyTimers[index]; t != nil {
		t.Reset(keyHold)
		return
	}
	c.keyTimers[index] = time.AfterFunc(keyHold, func() {
		_ = c.vm.SetKeyUp(index)
	})
}

func (c *console) bindKeys(g *gocui.Gui) error {
	for _, r := range keymap.Layout {
		index, _ := keymap.Index(r)
		handler := func(g *gocui.Gui, v *gocui.View) error {
			c.pressKey(index)
			return nil
		}
		if err := g.SetKeybinding("", r, gocui.ModNone, handler); err != nil {
			return err
		}
		if lower := unicode.ToLower(r); lower != r {
			if err := g.SetKeybinding("", lower, gocui.ModNone, handler); err != nil {
				return err
			}
		}
	}

	bindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, quit},
		{'p', c.togglePause},
		{gocui.KeyF5, c.reload},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *console) togglePause(g *gocui.Gui, v *gocui.View) error {
	c.mu.Lock()
	c.paused = !c.paused
	c.status = ""
	c.mu.Unlock()
	return nil
}

func (c *console) reload(g *gocui.Gui, v *gocui.View) error {
	err := c.vm.LoadProgram(c.rom)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = err.Error()
		return nil
	}
	c.paused = false
	c.status = "reloaded " + c.romName
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func main() {
	opts := config.DefaultOptions()
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	config.RegisterFlags(fs, &opts)
	_ = fs.Parse(os.Args[1:])

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := opts.Validate(); err != nil {
		logger.Fatal("Invalid options", log.Err(err))
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [options] <rom file>")
		fs.PrintDefaults()
		os.Exit(2)
	}

	rom, name, err := romloader.Load(fs.Arg(0), romloader.Extensions)
	if err != nil {
		logger.Fatal("Loading ROM failed", log.String("path", fs.Arg(0)), log.Err(err))
	}

	// Log output would tear the terminal UI, so the machine only logs
	// when debugging was asked for.
	var cpuLogger *log.Logger
	if opts.Debug {
		cpuLogger = logger
	}
	vm := cpu.NewCPU(opts.CPUOptions(cpuLogger)...)
	if err := vm.LoadProgram(rom); err != nil {
		logger.Fatal("Loading program failed", log.String("name", name), log.Err(err))
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		logger.Fatal("Creating terminal UI failed", log.Err(err))
	}

	c := &console{
		vm:      vm,
		opts:    opts,
		rom:     rom,
		romName: name,
		done:    make(chan struct{}),
	}
	g.SetManagerFunc(c.layout)
	if err := c.bindKeys(g); err != nil {
		g.Close()
		logger.Fatal("Binding keys failed", log.Err(err))
	}

	go c.run(g)
	err = g.MainLoop()
	close(c.done)
	g.Close()
	if err != nil && err != gocui.ErrQuit {
		logger.Fatal("Terminal UI failed", log.Err(err))
	}
}
