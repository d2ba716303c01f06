package ramp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"convert-capacity/internal/model"
)

// Delta is the ramp delta Δd as a fraction (0.015 = 1.5%).
type Delta float64

// Percent returns the delta expressed in percent.
func (d Delta) Percent() float64 {
	return float64(d) * 100
}

// Label formats the delta as a two-decimal percentage with the point
// replaced by an underscore: 0.015 -> "1_50".
func (d Delta) Label() string {
	return strings.Replace(strconv.FormatFloat(d.Percent(), 'f', 2, 64), ".", "_", 1)
}

func (d Delta) String() string {
	return fmt.Sprintf("%.2f%%", d.Percent())
}

// Columns are the four output column names for one delta.
type Columns struct {
	IncreaseRate string
	DecreaseRate string
	SeasonsToMax string
	SeasonsToMin string
}

// Columns returns the output column names for d.
func (d Delta) Columns() Columns {
	l := d.Label()
	return Columns{
		IncreaseRate: "effective_increase_rate_dd_" + l + "pct",
		DecreaseRate: "effective_decrease_rate_dd_" + l + "pct",
		SeasonsToMax: "seasons_to_max_capacity_dd_" + l + "pct",
		SeasonsToMin: "seasons_to_min_capacity_dd_" + l + "pct",
	}
}

// DefaultLadder is the historical sweep: 0.1%, then 0.25% to 5.00% in
// 0.25% steps (21 values).
func DefaultLadder() []Delta {
	out := []Delta{0.001}
	for k := 1; k <= 20; k++ {
		out = append(out, Delta(float64(k)*0.25/100))
	}
	return out
}

// FineLadder is 0.1% to 3.0% in 0.1% steps (30 values).
func FineLadder() []Delta {
	out := make([]Delta, 0, 30)
	for i := 1; i <= 30; i++ {
		out = append(out, Delta(float64(i)/1000))
	}
	return out
}

// RangeLadder builds an inclusive ladder from fromPct to toPct in stepPct
// increments, all in percent.
func RangeLadder(fromPct, toPct, stepPct float64) ([]Delta, error) {
	if stepPct <= 0 || fromPct <= 0 || toPct < fromPct {
		return nil, fmt.Errorf("%w: range from=%v to=%v step=%v", ErrDomain, fromPct, toPct, stepPct)
	}
	n := int(math.Floor((toPct-fromPct)/stepPct+1e-9)) + 1
	out := make([]Delta, 0, n)
	for k := 0; k < n; k++ {
		pct := model.Round(fromPct+float64(k)*stepPct, 6)
		out = append(out, Delta(model.Round(pct/100, 8)))
	}
	return out, nil
}

// SortLadder returns a sorted copy without duplicate labels.
func SortLadder(ladder []Delta) []Delta {
	out := make([]Delta, 0, len(ladder))
	seen := map[string]bool{}
	for _, d := range ladder {
		if seen[d.Label()] {
			continue
		}
		seen[d.Label()] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
