package analysis

import (
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
)

// Record is one season at which the running extreme deepened.
type Record struct {
	Season     int     `json:"season"`
	TwaDeltaB  float64 `json:"twaDeltaB"`
	TwaPrice   float64 `json:"twaPrice"`
	NewExtreme float64 `json:"new_extreme"`
}

// NewRecords lists the rows that set a new running extreme, in order.
func NewRecords(rows []pipeline.Row) []Record {
	var out []Record
	for _, r := range rows {
		if !r.IsNewMax {
			continue
		}
		out = append(out, Record{
			Season:     r.Season,
			TwaDeltaB:  r.TwaDeltaB,
			TwaPrice:   r.TwaPrice,
			NewExtreme: r.MaxNegativeTwaDeltaB,
		})
	}
	return out
}

// SourceCoverage is the price distribution of one provenance.
type SourceCoverage struct {
	Source model.DataSource `json:"source"`
	Stats  PriceStats       `json:"stats"`
	// MeanStep is the mean gap between distinct sorted prices.
	MeanStep float64 `json:"mean_step"`
}

// Coverage reports the price coverage of an extended table, split by
// data_source. Sources with no rows are omitted.
func Coverage(t *dataset.Table) []SourceCoverage {
	bySource := map[model.DataSource][]float64{}
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Value(i, model.ColDataSource)
		src, _ := v.(string)
		bySource[model.DataSource(src)] = append(bySource[model.DataSource(src)], t.Float(i, model.ColTwaPrice))
	}

	var out []SourceCoverage
	for _, src := range []model.DataSource{model.SourceHistorical, model.SourceSynthetic} {
		prices, ok := bySource[src]
		if !ok {
			continue
		}
		out = append(out, SourceCoverage{
			Source:   src,
			Stats:    ComputePriceStats(prices),
			MeanStep: meanStep(prices),
		})
	}
	return out
}

func meanStep(prices []float64) float64 {
	s := ComputePriceStats(prices)
	if s.Count < 2 {
		return 0
	}
	distinct := make(map[float64]bool, len(prices))
	for _, p := range prices {
		distinct[p] = true
	}
	if len(distinct) < 2 {
		return 0
	}
	return (s.Max - s.Min) / float64(len(distinct)-1)
}
