package cpu

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies uniformly distributed bytes to the Cxkk instruction.
type RandomSource interface {
	RandomByte() byte
}

type pcgSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a deterministic source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// NewSystemRandom returns a source seeded from the wall clock.
func NewSystemRandom() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (s *pcgSource) RandomByte() byte {
	return byte(s.rng.Uint32())
}
