package packing

import "math/rand/v2"

// Source yields uniform floats in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// newRandomSource returns a freshly seeded source for unseeded runs.
func newRandomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
