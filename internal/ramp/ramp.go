package ramp

import (
	"errors"
	"fmt"
	"math"

	"convert-capacity/internal/model"
)

// ErrDomain is returned when price or delta is not a positive finite number.
var ErrDomain = errors.New("ramp: price and delta must be positive and finite")

// span is the distance between the rationing floor (0.01) and ceiling (1.0).
const span = 0.99

// Rates are the closed-form ramp metrics for one (price, delta) pair.
//
// SeasonsToMin treats the decrease leg as linear. The real recurrence is
// an inverse relationship, so it is an order-of-magnitude estimate only;
// see TraceToBoundary for the exact step count.
type Rates struct {
	IncreaseRate float64 `json:"increase_rate"`
	DecreaseRate float64 `json:"decrease_rate"`
	SeasonsToMax float64 `json:"seasons_to_max"`
	SeasonsToMin float64 `json:"seasons_to_min"`
}

// Compute returns unrounded rates. Each value is chained from the unrounded
// previous one.
func Compute(price float64, d Delta) (Rates, error) {
	if !positiveFinite(price) || !positiveFinite(float64(d)) {
		return Rates{}, fmt.Errorf("%w: price=%v delta=%v", ErrDomain, price, float64(d))
	}
	inc := float64(d) * price
	dec := 0.01 / (float64(d) * price)
	r := Rates{
		IncreaseRate: inc,
		DecreaseRate: dec,
		SeasonsToMax: span / inc,
		SeasonsToMin: span / dec,
	}
	// Extreme but positive inputs can still under/overflow.
	if !r.finite() {
		return Rates{}, fmt.Errorf("%w: non-finite result for price=%v delta=%v", ErrDomain, price, float64(d))
	}
	return r, nil
}

// Rounded returns r with every field rounded for output.
func (r Rates) Rounded() Rates {
	return Rates{
		IncreaseRate: model.Round3(r.IncreaseRate),
		DecreaseRate: model.Round3(r.DecreaseRate),
		SeasonsToMax: model.Round3(r.SeasonsToMax),
		SeasonsToMin: model.Round3(r.SeasonsToMin),
	}
}

// Sweep evaluates every delta in the ladder at one price and returns the
// rounded rates keyed by delta.
func Sweep(price float64, ladder []Delta) (map[Delta]Rates, error) {
	out := make(map[Delta]Rates, len(ladder))
	for _, d := range ladder {
		r, err := Compute(price, d)
		if err != nil {
			return nil, err
		}
		out[d] = r.Rounded()
	}
	return out, nil
}

// RequiredDelta is the delta that reaches the ceiling from the floor in
// targetSeasons at the given price.
func RequiredDelta(targetSeasons, price float64) (Delta, error) {
	if !positiveFinite(targetSeasons) || !positiveFinite(price) {
		return 0, fmt.Errorf("%w: target=%v price=%v", ErrDomain, targetSeasons, price)
	}
	return Delta(span / (targetSeasons * price)), nil
}

func (r Rates) finite() bool {
	for _, v := range []float64{r.IncreaseRate, r.DecreaseRate, r.SeasonsToMax, r.SeasonsToMin} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
			return false
		}
	}
	return true
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
