package sim

import (
	"math/rand/v2"
	"time"
)

// Source is the random source every generator and tick draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a seeded PCG source. A zero seed is replaced with the
// current time so two desks started without a seed do not move in lockstep.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Clock supplies wall time for log timestamps and curve labels.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

// centered draws from [-0.5, 0.5).
func centered(src Source) float64 {
	return src.Float64() - 0.5
}

// biased draws from [-bias, 1-bias). A bias under one half leans positive.
func biased(src Source, bias float64) float64 {
	return src.Float64() - bias
}

func pick[T any](src Source, xs []T) T {
	return xs[src.IntN(len(xs))]
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
