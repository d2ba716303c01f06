package synthetic

import (
	"errors"
	"fmt"
	"math"

	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"
)

// ErrInvalidStep is returned for a grid step or bound that is not a
// positive finite number, or that would produce an unreasonably large grid.
var ErrInvalidStep = errors.New("synthetic: invalid grid")

const maxGridPoints = 1_000_000

// Point is one manufactured price observation.
type Point struct {
	Season int     `json:"season"`
	Price  float64 `json:"price"`
}

// Generate returns the grid low, low+step, ... strictly below high, each
// value rounded to three decimals. Point k of N gets season -(N-k), so
// seasons are negative and rise with price.
//
// low >= high yields an empty grid, not an error.
func Generate(low, high, step float64) ([]Point, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidStep, step)
	}
	if math.IsNaN(low) || math.IsNaN(high) || math.IsInf(low, 0) || math.IsInf(high, 0) {
		return nil, fmt.Errorf("%w: bounds %v..%v", ErrInvalidStep, low, high)
	}
	if low >= high {
		return nil, nil
	}
	if (high-low)/step > maxGridPoints {
		return nil, fmt.Errorf("%w: %v..%v by %v exceeds %d points", ErrInvalidStep, low, high, step, maxGridPoints)
	}

	// Each value is computed from k rather than accumulated.
	var prices []float64
	for k := 0; ; k++ {
		p := model.Round3(low + float64(k)*step)
		if p >= high {
			break
		}
		if len(prices) > 0 && p <= prices[len(prices)-1] {
			// step below the rounding resolution
			continue
		}
		prices = append(prices, p)
	}

	n := len(prices)
	out := make([]Point, n)
	for k, p := range prices {
		out[k] = Point{Season: -(n - k), Price: p}
	}
	return out, nil
}

// Schema is the column set of synthetic rows: the raw input columns, the
// ramp columns of every delta and data_source.
func Schema(deltas []ramp.Delta) (*dataset.Schema, error) {
	fields := []dataset.Field{
		{Name: model.ColSeason, Type: dataset.Int},
		{Name: model.ColTwaDeltaB, Type: dataset.Float},
		{Name: model.ColTwaPrice, Type: dataset.Float},
		{Name: model.ColL2SR, Type: dataset.Float},
		{Name: model.ColPodRate, Type: dataset.Float},
	}
	fields = append(fields, pipeline.RampFields(deltas)...)
	fields = append(fields, dataset.Field{Name: model.ColDataSource, Type: dataset.String})
	return dataset.NewSchema(fields...)
}

// Rows evaluates the ramp model at every grid point. Non-price columns are
// left at their zero defaults.
func Rows(points []Point, deltas []ramp.Delta) (*dataset.Table, error) {
	s, err := Schema(deltas)
	if err != nil {
		return nil, err
	}
	t := dataset.NewTable(s)
	for _, pt := range points {
		rates, err := ramp.Sweep(pt.Price, deltas)
		if err != nil {
			return nil, fmt.Errorf("synthetic season %d: %w", pt.Season, err)
		}
		rec := map[string]any{
			model.ColSeason:     pt.Season,
			model.ColTwaPrice:   pt.Price,
			model.ColDataSource: string(model.SourceSynthetic),
		}
		pipeline.RampValues(rates, deltas, rec)
		if err := t.Append(rec); err != nil {
			return nil, err
		}
	}
	return t, nil
}
