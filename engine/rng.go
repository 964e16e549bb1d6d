package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, so two engines built from the same
// seed and fed the same commands stay in lockstep.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a random integer in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// IntRange returns a random integer in [lo, hi]. Swapped bounds are fixed up.
func (r *RNG) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// FloatRange returns a random float in [lo, hi).
func (r *RNG) FloatRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	r.pos++
	return lo + r.src.Float64()*(hi-lo)
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
