package cpu

import "github.com/retroenv/retrogolib/log"

// instruction is a decoded 16 bit instruction word.
type instruction struct {
	word uint16
	op   byte   // high nibble
	x    byte   // second nibble
	y    byte   // third nibble
	n    byte   // low nibble
	kk   byte   // low byte
	nnn  uint16 // low 12 bits
}

func decode(word uint16) instruction {
	return instruction{
		word: word,
		op:   byte(word >> 12),
		x:    byte(word>>8) & 0x0F,
		y:    byte(word>>4) & 0x0F,
		n:    byte(word) & 0x0F,
		kk:   byte(word),
		nnn:  word & 0x0FFF,
	}
}

// execute applies in to the machine and returns the next program counter.
// Every check that can fail runs before the first mutation.
func (c *CPU) execute(in instruction, pc uint16) (uint16, error) {
	next := pc + InstructionSize
	skip := pc + 2*InstructionSize
	vx, vy := c.V[in.x], c.V[in.y]

	switch in.op {
	case 0x0:
		switch in.word {
		case 0x00E0:
			c.display.clear()
		case 0x00EE:
			ret, err := c.stack.pop()
			if err != nil {
				return pc, err
			}
			next = ret
		default:
			c.unrecognized(in, pc)
		}

	case 0x1:
		next = in.nnn

	case 0x2:
		if err := c.stack.push(next); err != nil {
			return pc, err
		}
		next = in.nnn

	case 0x3:
		if vx == in.kk {
			next = skip
		}

	case 0x4:
		if vx != in.kk {
			next = skip
		}

	case 0x5:
		if in.n != 0 {
			c.unrecognized(in, pc)
			break
		}
		if vx == vy {
			next = skip
		}

	case 0x6:
		c.V[in.x] = in.kk

	case 0x7:
		c.V[in.x] = vx + in.kk

	case 0x8:
		c.executeALU(in, vx, vy, pc)

	case 0x9:
		if in.n != 0 {
			c.unrecognized(in, pc)
			break
		}
		if vx != vy {
			next = skip
		}

	case 0xA:
		c.I = in.nnn

	case 0xB:
		next = in.nnn + uint16(c.V[0])

	case 0xC:
		c.V[in.x] = c.rng.RandomByte() & in.kk

	case 0xD:
		if err := checkRange(c.I, int(in.n)); err != nil {
			return pc, err
		}
		sprite := c.Memory[c.I : c.I+uint16(in.n)]
		c.V[RegF] = 0
		if c.display.drawSprite(sprite, vx, vy) {
			c.V[RegF] = 1
		}

	case 0xE:
		pressed := c.keys[vx&0x0F]
		switch in.kk {
		case 0x9E:
			if pressed {
				next = skip
			}
		case 0xA1:
			if !pressed {
				next = skip
			}
		default:
			c.unrecognized(in, pc)
		}

	case 0xF:
		if err := c.executeMisc(in, vx, pc); err != nil {
			return pc, err
		}
	}

	return next, nil
}

// executeALU handles the 8xyN register to register group. vx and vy are the
// operand values before the instruction, so VF as an operand reads its old value.
func (c *CPU) executeALU(in instruction, vx, vy byte, pc uint16) {
	switch in.n {
	case 0x0:
		c.V[in.x] = vy
	case 0x1:
		c.V[in.x] = vx | vy
	case 0x2:
		c.V[in.x] = vx & vy
	case 0x3:
		c.V[in.x] = vx ^ vy
	case 0x4:
		sum := uint16(vx) + uint16(vy)
		c.V[RegF] = flag(sum > 0xFF)
		c.V[in.x] = byte(sum)
	case 0x5:
		c.V[RegF] = flag(vx > vy)
		c.V[in.x] = vx - vy
	case 0x6:
		c.V[RegF] = vx & 0x01
		c.V[in.x] = vx >> 1
	case 0x7:
		c.V[RegF] = flag(vy > vx)
		c.V[in.x] = vy - vx
	case 0xE:
		if c.quirks.ShiftLeftFlagZero {
			c.V[RegF] = 0
		} else {
			c.V[RegF] = vx >> 7
		}
		c.V[in.x] = vx << 1
	default:
		c.unrecognized(in, pc)
	}
}

// executeMisc handles the Fxkk group.
func (c *CPU) executeMisc(in instruction, vx byte, pc uint16) error {
	switch in.kk {
	case 0x07:
		c.V[in.x] = c.timers.delay
	case 0x15:
		c.timers.delay = vx
	case 0x18:
		c.timers.sound = vx
	case 0x1E:
		c.I += uint16(vx)
	case 0x29:
		c.I = GlyphAddress(vx)
	case 0x33:
		if err := checkRange(c.I, 3); err != nil {
			return err
		}
		c.Memory[c.I] = vx / 100
		c.Memory[c.I+1] = (vx / 10) % 10
		c.Memory[c.I+2] = vx % 10
	case 0x55:
		count := int(in.x) + 1
		if err := checkRange(c.I, count); err != nil {
			return err
		}
		copy(c.Memory[c.I:], c.V[:count])
	case 0x65:
		count := int(in.x) + 1
		if err := checkRange(c.I, count); err != nil {
			return err
		}
		copy(c.V[:count], c.Memory[c.I:])
	default:
		c.unrecognized(in, pc)
	}
	return nil
}

func (c *CPU) unrecognized(in instruction, pc uint16) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("Unrecognized instruction treated as no-op",
		log.Uint16("opcode", in.word),
		log.Uint16("pc", pc))
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
