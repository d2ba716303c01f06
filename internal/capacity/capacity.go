package capacity

import (
	"math"

	"convert-capacity/internal/model"
)

// DefaultDivisors returns the S ladder 100, 200, ..., 1000.
func DefaultDivisors() []int {
	out := make([]int, 0, 10)
	for s := 100; s <= 1000; s += 100 {
		out = append(out, s)
	}
	return out
}

// Capacity returns |extreme| / s at full precision.
// A zero divisor yields 0 instead of dividing.
func Capacity(extreme float64, s int) float64 {
	if s == 0 {
		return 0
	}
	return math.Abs(extreme) / float64(s)
}

// Derive computes the rounded capacity for each divisor in the ladder.
// extreme must be the unrounded running value.
func Derive(extreme float64, divisors []int) map[int]float64 {
	out := make(map[int]float64, len(divisors))
	for _, s := range divisors {
		out[s] = model.Round3(Capacity(extreme, s))
	}
	return out
}
