package analysis

import (
	"math"
	"sort"

	"convert-capacity/internal/model"
	"convert-capacity/internal/ramp"
)

// PriceStats is a distribution summary of twaPrice.
type PriceStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// ComputePriceStats summarizes prices. Percentiles interpolate linearly
// between order statistics. An empty input yields the zero value.
func ComputePriceStats(prices []float64) PriceStats {
	s := PriceStats{}
	if len(prices) == 0 {
		return s
	}
	vals := make([]float64, len(prices))
	copy(vals, prices)
	sort.Float64s(vals)

	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	s.Count = len(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Mean = sum / float64(len(vals))
	s.P25 = percentileSorted(vals, 0.25)
	s.Median = percentileSorted(vals, 0.50)
	s.P75 = percentileSorted(vals, 0.75)
	return s
}

// Prices extracts twaPrice from a series.
func Prices(series []model.SeasonRecord) []float64 {
	out := make([]float64, 0, len(series))
	for _, r := range series {
		out = append(out, r.TwaPrice)
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// KeyLevel is one named point of the price distribution.
type KeyLevel struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// KeyLevels returns min, p25, median, p75 and max in that order.
func (s PriceStats) KeyLevels() []KeyLevel {
	return []KeyLevel{
		{Label: "Min", Price: s.Min},
		{Label: "25th %ile", Price: s.P25},
		{Label: "Median", Price: s.Median},
		{Label: "75th %ile", Price: s.P75},
		{Label: "Max", Price: s.Max},
	}
}

// LevelRates are the rates at one key level for every delta.
type LevelRates struct {
	KeyLevel
	Rates []DeltaRates `json:"rates"`
}

// DeltaRates pairs a delta with its rounded rates.
type DeltaRates struct {
	Delta ramp.Delta `json:"delta"`
	ramp.Rates
}

// ReportDeltas is the short ladder used for key-level tables.
func ReportDeltas() []ramp.Delta {
	return []ramp.Delta{0.001, 0.0025, 0.005, 0.0075, 0.01, 0.02, 0.03, 0.04, 0.05}
}

// KeyLevelTable evaluates the ramp model at each key price level.
// An empty distribution yields no levels.
func KeyLevelTable(s PriceStats, deltas []ramp.Delta) ([]LevelRates, error) {
	if s.Count == 0 {
		return nil, nil
	}
	out := make([]LevelRates, 0, 5)
	for _, lvl := range s.KeyLevels() {
		lr := LevelRates{KeyLevel: lvl, Rates: make([]DeltaRates, 0, len(deltas))}
		for _, d := range deltas {
			r, err := ramp.Compute(lvl.Price, d)
			if err != nil {
				return nil, err
			}
			lr.Rates = append(lr.Rates, DeltaRates{Delta: d, Rates: r.Rounded()})
		}
		out = append(out, lr)
	}
	return out, nil
}
