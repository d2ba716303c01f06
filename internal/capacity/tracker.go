package capacity

// Extreme is the running most-negative twaDeltaB seen so far.
// The zero value is the initial state (0.0), so a series without any
// deficit reports 0.0 throughout.
//
// Extreme is threaded through a season-ascending fold; visiting records out
// of order gives a wrong running value rather than an error.
type Extreme struct {
	Value float64
}

// Observe folds one imbalance value into the state. It returns the next
// state and whether v set a new record. Comparisons use full precision.
func (e Extreme) Observe(v float64) (Extreme, bool) {
	if v < 0 && v < e.Value {
		return Extreme{Value: v}, true
	}
	return e, false
}

// Observation is the per-season output of the tracker.
type Observation struct {
	MaxNegative float64
	IsNewMax    bool
}

// Track runs the fold over an ordered sequence of imbalance values.
func Track(values []float64) []Observation {
	out := make([]Observation, 0, len(values))
	var e Extreme
	for _, v := range values {
		var isNew bool
		e, isNew = e.Observe(v)
		out = append(out, Observation{MaxNegative: e.Value, IsNewMax: isNew})
	}
	return out
}
