package core

import (
	"fmt"
	"math/rand"
)

// RNG yields uniform integers. It is the single source of randomness for a
// game; board setup, dealing and every battle draw from the same stream.
type RNG interface {
	// IntRange returns a uniform integer in the closed range [lo, hi].
	IntRange(lo, hi int) int
}

// SeededRNG is the production RNG, reproducible from its seed.
type SeededRNG struct {
	seed int64
	r    *rand.Rand
}

// NewSeededRNG creates an RNG from seed.
func NewSeededRNG(seed int64) *SeededRNG {
	return &SeededRNG{
		seed: seed,
		r:    rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (s *SeededRNG) Seed() int64 {
	return s.seed
}

// IntRange implements RNG.
func (s *SeededRNG) IntRange(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("core: empty range [%d, %d]", lo, hi))
	}
	return lo + s.r.Intn(hi-lo+1)
}

// SequenceRNG replays a scripted list of values. Each call consumes one
// value, which must lie inside the requested range. Used for deterministic
// tests and for replaying recorded rolls.
type SequenceRNG struct {
	values []int
	pos    int
}

// NewSequenceRNG creates a scripted RNG.
func NewSequenceRNG(values ...int) *SequenceRNG {
	return &SequenceRNG{values: values}
}

// IntRange implements RNG. It panics when the script is exhausted or the
// scripted value is outside [lo, hi]; both mean the script is wrong.
func (s *SequenceRNG) IntRange(lo, hi int) int {
	if s.pos >= len(s.values) {
		panic(fmt.Sprintf("core: sequence exhausted after %d values (wanted [%d, %d])", s.pos, lo, hi))
	}
	v := s.values[s.pos]
	if v < lo || v > hi {
		panic(fmt.Sprintf("core: scripted value #%d = %d outside [%d, %d]", s.pos, v, lo, hi))
	}
	s.pos++
	return v
}

// Remaining returns the number of unconsumed values.
func (s *SequenceRNG) Remaining() int {
	return len(s.values) - s.pos
}
