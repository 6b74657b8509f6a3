// Package roguemonsters generates spawn logs with the random monster rules
// of Rogue for PC-DOS 1.1.
package roguemonsters

import "time"

const modulus = 2796203

// RNG is Rogue's linear congruential generator.
type RNG struct {
	seed int64
}

// NewRNG returns a generator starting at seed.
func NewRNG(seed int64) *RNG {
	// A zero state never advances.
	if seed%modulus == 0 {
		seed = 1
	}
	return &RNG{seed: seed}
}

// TimeSeed returns a seed from the wall clock in whole seconds.
func TimeSeed() int64 {
	return time.Now().Unix()
}

// Ran advances the generator and returns the new seed.
func (r *RNG) Ran() int64 {
	r.seed *= 125
	r.seed -= (r.seed / modulus) * modulus
	return r.seed
}

// Rnd returns a number in [0, n), or 0 when n < 1.
func (r *RNG) Rnd(n int) int {
	if n < 1 {
		return 0
	}
	return int(((r.Ran() + r.Ran()) & 0x7fffffff) % int64(n))
}
