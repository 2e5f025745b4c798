// Package rng adapts the Mersenne Twister generator used throughout the
// search (selection tie-breaking, playout move choice, prior jitter) to
// the standard math/rand.Source64 interface, so callers can keep using
// math/rand.Rand's convenience methods (Intn, Float64, Shuffle) on top of
// a higher-quality generator than the default source. traveller42-michi-go
// lists github.com/bszcz/mt19937_64 in its go.mod for exactly this
// purpose (playout/Shuffle randomness) without ever wiring it up; this
// package is where it gets used.
package rng

import (
	"math/rand"

	mt "github.com/bszcz/mt19937_64"
)

// Source wraps *mt.MT as a math/rand.Source64.
type Source struct {
	gen *mt.MT
}

// NewSource returns a Source seeded deterministically from seed.
func NewSource(seed int64) *Source {
	s := &Source{gen: mt.New()}
	s.gen.Seed(seed)
	return s
}

// Seed reseeds the underlying generator.
func (s *Source) Seed(seed int64) {
	s.gen.Seed(seed)
}

// Uint64 returns the next 64-bit value.
func (s *Source) Uint64() uint64 {
	return s.gen.Uint64()
}

// Int63 returns the next value truncated to 63 bits, satisfying
// rand.Source.
func (s *Source) Int63() int64 {
	return int64(s.gen.Uint64() >> 1)
}

// New returns a *rand.Rand backed by a freshly seeded Mersenne Twister.
func New(seed int64) *rand.Rand {
	return rand.New(NewSource(seed))
}
