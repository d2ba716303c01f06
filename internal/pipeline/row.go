package pipeline

import (
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/ramp"
)

// Row is one season of pipeline output.
// This is the primary artifact for "what the mechanism would have done".
//
// The embedded record and MaxNegativeTwaDeltaB hold full precision;
// Capacity and Ramp are already rounded for output.
type Row struct {
	model.SeasonRecord

	Source model.DataSource

	MaxNegativeTwaDeltaB float64
	IsNewMax             bool

	Capacity map[int]float64
	Ramp     map[ramp.Delta]ramp.Rates
}

// Result is the output of one Engine.Run.
type Result struct {
	Rows         []Row
	FinalExtreme float64
	NewRecords   int
}

// Schema returns the output columns for p: the raw input columns, the
// tracker columns, one capacity column per divisor and four ramp columns
// per delta, in ladder order. withSource appends data_source.
func Schema(p Params, withSource bool) (*dataset.Schema, error) {
	fields := []dataset.Field{
		{Name: model.ColSeason, Type: dataset.Int},
		{Name: model.ColTwaDeltaB, Type: dataset.Float},
		{Name: model.ColTwaPrice, Type: dataset.Float},
		{Name: model.ColL2SR, Type: dataset.Float},
		{Name: model.ColPodRate, Type: dataset.Float},
		{Name: model.ColMaxNegativeTwaDeltaB, Type: dataset.Float},
		{Name: model.ColIsNewMaxTwaDeltaB, Type: dataset.Bool},
	}
	for _, s := range p.Divisors {
		fields = append(fields, dataset.Field{Name: model.CapacityColumn(s), Type: dataset.Float})
	}
	fields = append(fields, RampFields(p.Deltas)...)
	if withSource {
		fields = append(fields, dataset.Field{Name: model.ColDataSource, Type: dataset.String})
	}
	return dataset.NewSchema(fields...)
}

// RampFields returns the four float columns of every delta in the ladder.
func RampFields(deltas []ramp.Delta) []dataset.Field {
	out := make([]dataset.Field, 0, 4*len(deltas))
	for _, d := range deltas {
		c := d.Columns()
		out = append(out,
			dataset.Field{Name: c.IncreaseRate, Type: dataset.Float},
			dataset.Field{Name: c.DecreaseRate, Type: dataset.Float},
			dataset.Field{Name: c.SeasonsToMax, Type: dataset.Float},
			dataset.Field{Name: c.SeasonsToMin, Type: dataset.Float},
		)
	}
	return out
}

// RampValues flattens rates into column-name keyed cells.
func RampValues(rates map[ramp.Delta]ramp.Rates, deltas []ramp.Delta, into map[string]any) {
	for _, d := range deltas {
		r, ok := rates[d]
		if !ok {
			continue
		}
		c := d.Columns()
		into[c.IncreaseRate] = r.IncreaseRate
		into[c.DecreaseRate] = r.DecreaseRate
		into[c.SeasonsToMax] = r.SeasonsToMax
		into[c.SeasonsToMin] = r.SeasonsToMin
	}
}

// Record serializes the row using the output column names. Raw columns and
// the running extreme are rounded to three decimals here.
func (r Row) Record(p Params, withSource bool) map[string]any {
	rec := map[string]any{
		model.ColSeason:               r.Season,
		model.ColTwaDeltaB:            model.Round3(r.TwaDeltaB),
		model.ColTwaPrice:             model.Round3(r.TwaPrice),
		model.ColL2SR:                 model.Round3(r.L2SR),
		model.ColPodRate:              model.Round3(r.PodRate),
		model.ColMaxNegativeTwaDeltaB: model.Round3(r.MaxNegativeTwaDeltaB),
		model.ColIsNewMaxTwaDeltaB:    r.IsNewMax,
	}
	for _, s := range p.Divisors {
		if v, ok := r.Capacity[s]; ok {
			rec[model.CapacityColumn(s)] = v
		}
	}
	RampValues(r.Ramp, p.Deltas, rec)
	if withSource {
		src := r.Source
		if src == "" {
			src = model.SourceHistorical
		}
		rec[model.ColDataSource] = string(src)
	}
	return rec
}

// ToTable lays rows out on Schema(p, withSource).
func ToTable(rows []Row, p Params, withSource bool) (*dataset.Table, error) {
	s, err := Schema(p, withSource)
	if err != nil {
		return nil, err
	}
	t := dataset.NewTable(s)
	for _, r := range rows {
		if err := t.Append(r.Record(p, withSource)); err != nil {
			return nil, err
		}
	}
	return t, nil
}
