package cpu

// StackDepth is the number of return addresses the call stack can hold.
const StackDepth = 16

type callStack struct {
	entries [StackDepth]uint16
	top     int
}

func (s *callStack) push(addr uint16) error {
	if s.top == StackDepth {
		return ErrStackOverflow
	}
	s.entries[s.top] = addr
	s.top++
	return nil
}

func (s *callStack) pop() (uint16, error) {
	if s.top == 0 {
		return 0, ErrStackUnderflow
	}
	s.top--
	return s.entries[s.top], nil
}

// frames returns the live entries, oldest first.
func (s *callStack) frames() []uint16 {
	out := make([]uint16, s.top)
	copy(out, s.entries[:s.top])
	return out
}

func (s *callStack) reset() {
	*s = callStack{}
}
