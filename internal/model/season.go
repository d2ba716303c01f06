package model

// SeasonRecord is one raw observation for a protocol season.
// Units:
// - TwaDeltaB: signed imbalance, positive = surplus, negative = deficit
// - TwaPrice: time-weighted average price (> 0 for usable rows)
// - L2SR: liquidity-to-supply ratio, 0..1
// - PodRate: percent
//
// Blank inputs are carried as 0.0; the substitution happens at ingestion.
type SeasonRecord struct {
	Season    int     `json:"season"`
	TwaDeltaB float64 `json:"twaDeltaB"`
	TwaPrice  float64 `json:"twaPrice"`
	L2SR      float64 `json:"l2sr"`
	PodRate   float64 `json:"podRate"`
}

// PriceRange returns the min and max TwaPrice of a series.
// ok is false for an empty series.
func PriceRange(series []SeasonRecord) (minPrice, maxPrice float64, ok bool) {
	if len(series) == 0 {
		return 0, 0, false
	}
	minPrice = series[0].TwaPrice
	maxPrice = series[0].TwaPrice
	for _, r := range series[1:] {
		if r.TwaPrice < minPrice {
			minPrice = r.TwaPrice
		}
		if r.TwaPrice > maxPrice {
			maxPrice = r.TwaPrice
		}
	}
	return minPrice, maxPrice, true
}
