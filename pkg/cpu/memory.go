package cpu

import "fmt"

const (
	// MemorySize is the addressable range 0x000-0xFFF.
	MemorySize = 4096
	// ProgramStart is where LoadProgram places the first ROM byte.
	ProgramStart = 0x200
	// MaxProgramSize is the largest ROM that fits above ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// GlyphSize is the number of rows (bytes) in one hex digit sprite.
	GlyphSize = 5
)

// glyphs holds the 4x5 hex digit font installed at address 0 on reset.
var glyphs = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// GlyphAddress returns the address of the sprite for the low nibble of digit.
func GlyphAddress(digit byte) uint16 {
	return uint16(digit&0x0F) * GlyphSize
}

// checkRange verifies that n bytes starting at addr are addressable.
func checkRange(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return fmt.Errorf("%w: 0x%04X+%d", ErrOutOfBounds, addr, n)
	}
	return nil
}

func (c *CPU) read(addr uint16) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}
	return c.Memory[addr], nil
}

func (c *CPU) write(addr uint16, val byte) error {
	if err := checkRange(addr, 1); err != nil {
		return err
	}
	c.Memory[addr] = val
	return nil
}

// fetch reads the big-endian instruction word at addr.
func (c *CPU) fetch(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(c.Memory[addr])<<8 | uint16(c.Memory[addr+1]), nil
}

// ReadMemory reads a single byte from addr.
func (c *CPU) ReadMemory(addr uint16) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read(addr)
}

// WriteMemory writes a single byte to addr. Addresses do not wrap.
func (c *CPU) WriteMemory(addr uint16, val byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(addr, val)
}
