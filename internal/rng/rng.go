// Package rng provides the random source threaded through response
// selection, persona rewrites, and doorknob draws.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the subset of a random generator the interview engine needs.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Seeded is a deterministic PCG-backed Source. It is not safe for
// concurrent use; each session owns its own.
type Seeded struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. Equal seeds produce equal streams.
func New(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeed derives a fresh seed from the clock and the global generator.
func NewSeed() uint64 {
	return uint64(time.Now().UnixNano()) ^ rand.Uint64()
}

func (s *Seeded) Float64() float64 { return s.r.Float64() }
func (s *Seeded) IntN(n int) int   { return s.r.IntN(n) }

// Pick returns a uniformly chosen element of items. ok is false when items
// is empty.
func Pick[T any](src Source, items []T) (v T, ok bool) {
	if len(items) == 0 {
		return v, false
	}
	return items[src.IntN(len(items))], true
}

// Chance reports whether a single draw lands below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
