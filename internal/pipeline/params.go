package pipeline

import (
	"fmt"

	"convert-capacity/internal/capacity"
	"convert-capacity/internal/ramp"
)

// Params are the two parameter ladders swept for every season.
type Params struct {
	Divisors []int
	Deltas   []ramp.Delta
}

// DefaultParams returns S = 100..1000 and the 21-step Δd ladder.
func DefaultParams() Params {
	return Params{
		Divisors: capacity.DefaultDivisors(),
		Deltas:   ramp.DefaultLadder(),
	}
}

// Validate rejects ladders that would produce invalid or colliding columns.
// A zero divisor is allowed; its capacity is reported as 0.
func (p Params) Validate() error {
	seenS := make(map[int]bool, len(p.Divisors))
	for _, s := range p.Divisors {
		if s < 0 {
			return fmt.Errorf("divisor %d must be >= 0", s)
		}
		if seenS[s] {
			return fmt.Errorf("duplicate divisor %d", s)
		}
		seenS[s] = true
	}

	seenD := make(map[string]bool, len(p.Deltas))
	for _, d := range p.Deltas {
		if d <= 0 {
			return fmt.Errorf("%w: delta %v", ramp.ErrDomain, float64(d))
		}
		if seenD[d.Label()] {
			return fmt.Errorf("duplicate delta %s", d)
		}
		seenD[d.Label()] = true
	}
	return nil
}
