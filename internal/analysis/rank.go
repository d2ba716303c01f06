package analysis

import (
	"math"
	"sort"

	"convert-capacity/internal/ramp"
)

// RankedDelta is a ladder value scored against a target ramp time.
type RankedDelta struct {
	DeltaRates
	Distance float64 `json:"distance"`
}

// RankDeltas scores each delta at price by |seasonsToMax - target| and
// sorts ascending, closest first. Ties keep ladder order.
func RankDeltas(price, targetSeasons float64, deltas []ramp.Delta) ([]RankedDelta, error) {
	out := make([]RankedDelta, 0, len(deltas))
	for _, d := range deltas {
		r, err := ramp.Compute(price, d)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedDelta{
			DeltaRates: DeltaRates{Delta: d, Rates: r.Rounded()},
			Distance:   math.Abs(r.SeasonsToMax - targetSeasons),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}
