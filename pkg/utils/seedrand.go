// pkg/utils/seedrand.go
package utils

import "hash/fnv"

// SeedRand is a deterministic pseudo-random generator seeded by a
// string. The seed is hashed with 64-bit FNV-1a and the state is
// advanced with SplitMix64, so the stream is a pure function of the
// seed string: the same seed yields the same sequence across calls,
// restarts, and platforms. Not cryptographic.
type SeedRand struct {
	state uint64
}

// NewSeedRand creates a generator for the given seed string.
func NewSeedRand(seed string) *SeedRand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return &SeedRand{state: h.Sum64()}
}

// next advances the SplitMix64 state and returns the next 64-bit value.
func (r *SeedRand) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (r *SeedRand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Shuffle permutes the slice in place with a seeded Fisher-Yates pass:
// for each index i from last to first, draw j in [0, i] and swap.
func (r *SeedRand) Shuffle(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := int(r.Float64() * float64(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
