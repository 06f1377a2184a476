package cpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/retroenv/retrogolib/log"
)

// RegisterCount is the number of general purpose registers V0-VF.
const RegisterCount = 16

// RegF is the flag register index, written by carry, borrow, shift and
// collision results.
const RegF = 0xF

// InstructionSize is the width of one instruction word in bytes.
const InstructionSize = 2

// CPU is one isolated machine instance. Host facing methods are safe to call
// from different goroutines; each Step runs under the instance lock so
// snapshots never observe a half applied instruction.
//
// The exported register and memory fields are meant for tests and debuggers
// and must not be touched while another goroutine is stepping.
type CPU struct {
	mu sync.Mutex

	Memory [MemorySize]byte

	V  [RegisterCount]byte
	I  uint16
	PC uint16

	// Cycles counts successfully executed instructions since the last reset.
	Cycles uint64

	stack   callStack
	keys    [KeyCount]bool
	timers  timers
	display Framebuffer

	rng    RandomSource
	logger *log.Logger
	quirks Quirks
}

// Quirks pins behaviour that differs between historical interpreters.
type Quirks struct {
	// ShiftLeftFlagZero makes 8xyE always clear VF instead of storing the
	// shifted out bit, reproducing an interpreter that tested bit 15 of an
	// 8 bit register.
	ShiftLeftFlagZero bool
}

// Option configures a CPU created by NewCPU.
type Option func(*CPU)

// WithRandom sets the source used by Cxkk.
func WithRandom(src RandomSource) Option {
	return func(c *CPU) { c.rng = src }
}

// WithLogger enables debug logging of unrecognized instructions.
func WithLogger(logger *log.Logger) Option {
	return func(c *CPU) { c.logger = logger }
}

// WithTimerMode selects what drives the delay and sound timers.
func WithTimerMode(mode TimerMode) Option {
	return func(c *CPU) { c.timers.mode = mode }
}

// WithClock sets the time base used by TimerClocked.
func WithClock(clock Clock) Option {
	return func(c *CPU) { c.timers.clock = clock }
}

// WithQuirks sets the compatibility quirks.
func WithQuirks(q Quirks) Option {
	return func(c *CPU) { c.quirks = q }
}

// NewCPU creates a reset CPU with the glyph table installed.
func NewCPU(opts ...Option) *CPU {
	c := &CPU{}
	c.timers.clock = systemClock{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = NewSystemRandom()
	}
	c.reset()
	return c
}

// Reset zeroes memory, registers, stack, timers, keypad and display, installs
// the glyph table and points PC at ProgramStart.
func (c *CPU) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *CPU) reset() {
	c.Memory = [MemorySize]byte{}
	copy(c.Memory[:], glyphs[:])
	c.V = [RegisterCount]byte{}
	c.I = 0
	c.PC = ProgramStart
	c.Cycles = 0
	c.stack.reset()
	c.keys = [KeyCount]bool{}
	c.timers.reset()
	c.display.clear()
}

// LoadProgram resets the machine and copies rom to ProgramStart. A ROM that
// does not fit is rejected before anything is touched.
func (c *CPU) LoadProgram(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrRomTooLarge, len(rom), MaxProgramSize)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	copy(c.Memory[ProgramStart:], rom)
	return nil
}

// Step executes exactly one instruction followed by one timer tick. On error
// the machine is left as it was before the call.
func (c *CPU) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step()
}

func (c *CPU) step() error {
	pc := c.PC
	word, err := c.fetch(pc)
	if err != nil {
		return &StepError{PC: pc, Err: err}
	}

	next, err := c.execute(decode(word), pc)
	if err != nil {
		return &StepError{PC: pc, Opcode: word, Err: err}
	}

	c.PC = next
	c.Cycles++
	c.timers.tick()
	return nil
}

// RunSteps executes n instructions, stopping at the first error.
func (c *CPU) RunSteps(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		if err := c.step(); err != nil {
			return err
		}
	}
	return nil
}

// DelayTimer returns the current delay timer value.
func (c *CPU) DelayTimer() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers.delay
}

// SoundTimer returns the current sound timer value.
func (c *CPU) SoundTimer() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers.sound
}

// SoundActive reports whether the host should be producing a tone.
func (c *CPU) SoundActive() bool {
	return c.SoundTimer() != 0
}

// State is a point in time copy of the register file.
type State struct {
	V      [RegisterCount]byte
	I      uint16
	PC     uint16
	Stack  []uint16
	Delay  byte
	Sound  byte
	Cycles uint64
}

// State returns a copy of the registers, stack and timers.
func (c *CPU) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		V:      c.V,
		I:      c.I,
		PC:     c.PC,
		Stack:  c.stack.frames(),
		Delay:  c.timers.delay,
		Sound:  c.timers.sound,
		Cycles: c.Cycles,
	}
}

func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC=0x%03X I=0x%03X SP=%d DT=%d ST=%d", s.PC, s.I, len(s.Stack), s.Delay, s.Sound)
	for i, v := range s.V {
		fmt.Fprintf(&b, " V%X=%02X", i, v)
	}
	return b.String()
}
