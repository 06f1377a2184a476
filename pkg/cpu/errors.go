package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrRomTooLarge     = errors.New("rom too large")
	ErrStackOverflow   = errors.New("call stack overflow")
	ErrStackUnderflow  = errors.New("call stack underflow")
	ErrOutOfBounds     = errors.New("memory access out of bounds")
	ErrInvalidKeyIndex = errors.New("invalid key index")
)

// StepError reports the instruction that aborted a step. The machine state is
// unchanged by a failed step.
type StepError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pc 0x%03X opcode 0x%04X: %v", e.PC, e.Opcode, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
