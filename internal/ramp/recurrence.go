package ramp

import (
	"errors"
	"fmt"
	"math"
)

// Rationing state bounds.
const (
	Floor   = 0.01
	Ceiling = 1.0
)

// Regime is the capacity condition for a season.
// Keep these values stable; they are used as CLI/API input.
type Regime string

const (
	// Reached: the bonus convert capacity was used up; D ramps toward the ceiling.
	Reached Regime = "reached"
	// Holding: capacity was almost reached; D is unchanged.
	Holding Regime = "holding"
	// Depleting: capacity was not reached; D decays toward the floor.
	Depleting Regime = "depleting"
)

// ErrNoBoundary is returned when a trace cannot reach a boundary.
var ErrNoBoundary = errors.New("ramp: regime never reaches a boundary")

// Step applies one season of the rationing recurrence to d.
func Step(d, price float64, delta Delta, regime Regime) (float64, error) {
	if !positiveFinite(price) || !positiveFinite(float64(delta)) {
		return 0, fmt.Errorf("%w: price=%v delta=%v", ErrDomain, price, float64(delta))
	}
	x := float64(delta) * price
	switch regime {
	case Reached:
		return math.Min(Ceiling, d+x), nil
	case Holding:
		return d, nil
	case Depleting:
		return math.Max(Floor, d-Floor/x), nil
	default:
		return 0, fmt.Errorf("unknown regime %q", regime)
	}
}

// Trace is the exact step-by-step walk between the two boundaries.
type Trace struct {
	Regime  Regime
	Seasons int
	Path    []float64 // D after each season, starting state excluded
	Reached bool
}

// TraceToBoundary walks the recurrence at a constant price starting from the
// opposite boundary: Reached starts at Floor and stops at Ceiling, Depleting
// starts at Ceiling and stops at Floor. maxSteps bounds the walk; when it is
// hit the trace is returned with Reached=false.
func TraceToBoundary(price float64, delta Delta, regime Regime, maxSteps int) (Trace, error) {
	var d, target float64
	switch regime {
	case Reached:
		d, target = Floor, Ceiling
	case Depleting:
		d, target = Ceiling, Floor
	case Holding:
		return Trace{Regime: regime}, ErrNoBoundary
	default:
		return Trace{}, fmt.Errorf("unknown regime %q", regime)
	}
	if maxSteps <= 0 {
		maxSteps = 100_000
	}

	tr := Trace{Regime: regime}
	for tr.Seasons < maxSteps {
		next, err := Step(d, price, delta, regime)
		if err != nil {
			return Trace{}, err
		}
		d = next
		tr.Seasons++
		tr.Path = append(tr.Path, d)
		if d == target {
			tr.Reached = true
			break
		}
	}
	return tr, nil
}
