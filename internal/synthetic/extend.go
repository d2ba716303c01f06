package synthetic

import (
	"fmt"
	"math"

	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
)

// Options control the low-price grid.
type Options struct {
	MinPrice float64 `json:"min_price" yaml:"min_price"`
	Step     float64 `json:"step" yaml:"step"`
}

// DefaultOptions extends down to 0.25 in 0.01 steps.
func DefaultOptions() Options {
	return Options{MinPrice: 0.25, Step: 0.01}
}

func (o Options) Validate() error {
	if !(o.MinPrice > 0) || math.IsInf(o.MinPrice, 0) {
		return fmt.Errorf("%w: min price %v must be > 0", ErrInvalidStep, o.MinPrice)
	}
	if !(o.Step > 0) || math.IsInf(o.Step, 0) {
		return fmt.Errorf("%w: step %v must be > 0", ErrInvalidStep, o.Step)
	}
	return nil
}

// PriceRange is an inclusive [Min, Max] price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Metadata summarizes what an extension added.
type Metadata struct {
	HistoricalCount int         `json:"historical_count"`
	HistoricalRange *PriceRange `json:"historical_price_range,omitempty"`
	SyntheticCount  int         `json:"synthetic_count"`
	SyntheticRange  *PriceRange `json:"synthetic_price_range,omitempty"`
	TotalCount      int         `json:"total_count"`
	// Extension is [MinPrice, historical minimum); nil when nothing was added.
	Extension *PriceRange `json:"extension_range,omitempty"`
}

// Extension is the merged historical + synthetic table.
type Extension struct {
	Table *dataset.Table
	Meta  Metadata
}

// Extend tags historical rows, generates the grid below their minimum
// price and merges both into one price-ordered table.
//
// The grid bound is the minimum of the rounded historical prices, which is
// what the output table shows. With no historical rows there is no bound
// and no grid; the result is the (empty) tagged historical table.
//
// The output must not be extended again: rows would be duplicated.
func Extend(historical []pipeline.Row, p pipeline.Params, opt Options) (*Extension, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	hist, err := pipeline.ToTable(historical, p, true)
	if err != nil {
		return nil, fmt.Errorf("historical table: %w", err)
	}

	meta := Metadata{HistoricalCount: len(historical)}
	if len(historical) == 0 {
		meta.TotalCount = hist.Len()
		return &Extension{Table: hist, Meta: meta}, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range historical {
		price := model.Round3(r.TwaPrice)
		lo = math.Min(lo, price)
		hi = math.Max(hi, price)
	}
	meta.HistoricalRange = &PriceRange{Min: lo, Max: hi}

	points, err := Generate(opt.MinPrice, lo, opt.Step)
	if err != nil {
		return nil, err
	}
	synth, err := Rows(points, p.Deltas)
	if err != nil {
		return nil, err
	}

	merged, err := dataset.Merge(hist, synth, model.ColTwaPrice, model.ColSeason)
	if err != nil {
		return nil, fmt.Errorf("merge synthetic rows: %w", err)
	}

	meta.SyntheticCount = len(points)
	meta.TotalCount = merged.Len()
	if len(points) > 0 {
		meta.SyntheticRange = &PriceRange{Min: points[0].Price, Max: points[len(points)-1].Price}
		meta.Extension = &PriceRange{Min: opt.MinPrice, Max: lo}
	}
	return &Extension{Table: merged, Meta: meta}, nil
}
