package cpu

import (
	"math/rand"
	"time"
)

// Rand is a source of uniformly distributed bytes for the RND instruction.
type Rand interface {
	Byte() uint8
}

type source struct {
	rng *rand.Rand
}

// NewRand returns a Rand seeded with the given value.
func NewRand(seed int64) Rand {
	return &source{rng: rand.New(rand.NewSource(seed))}
}

func newClockRand() Rand {
	return NewRand(time.Now().UnixNano())
}

func (s *source) Byte() uint8 {
	return uint8(s.rng.Intn(256))
}
