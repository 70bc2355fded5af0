package core

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness for simulated activity.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed source. A zero seed uses the current time.
func NewRand(seed int64) Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Pick returns a uniformly random element of items. items must not be empty.
func Pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// uniformDuration samples a duration in [min, max).
func uniformDuration(r Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(r.Float64()*float64(max-min))
}
