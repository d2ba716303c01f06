package analysis

import "convert-capacity/internal/ramp"

// Band is a named group of target ramp times, in seasons to max.
type Band struct {
	Name    string    `json:"name"`
	Targets []float64 `json:"targets"`
}

// DefaultBands are the fast, moderate and slow ramp targets.
func DefaultBands() []Band {
	return []Band{
		{Name: "fast", Targets: []float64{50, 75, 100}},
		{Name: "moderate", Targets: []float64{100, 150, 200}},
		{Name: "slow", Targets: []float64{200, 300, 500}},
	}
}

// Suggestion is the delta that hits one target at the reference price.
type Suggestion struct {
	TargetSeasons float64    `json:"target_seasons"`
	Delta         ramp.Delta `json:"delta"`
	Percent       float64    `json:"percent"`
}

// Recommendation groups suggestions by band.
type Recommendation struct {
	Band        string       `json:"band"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Recommend solves 0.99 / (target * price) for every target of every band.
func Recommend(price float64, bands []Band) ([]Recommendation, error) {
	out := make([]Recommendation, 0, len(bands))
	for _, b := range bands {
		rec := Recommendation{Band: b.Name, Suggestions: make([]Suggestion, 0, len(b.Targets))}
		for _, target := range b.Targets {
			d, err := ramp.RequiredDelta(target, price)
			if err != nil {
				return nil, err
			}
			rec.Suggestions = append(rec.Suggestions, Suggestion{
				TargetSeasons: target,
				Delta:         d,
				Percent:       d.Percent(),
			})
		}
		out = append(out, rec)
	}
	return out, nil
}
