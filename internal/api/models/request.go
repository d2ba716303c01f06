package models

import "convert-capacity/internal/model"

// AnalyzeRequest represents the request body for an analysis run.
// Empty ladders fall back to the server's configured ladders.
type AnalyzeRequest struct {
	Seasons     []model.SeasonRecord `json:"seasons" binding:"required"`
	Divisors    []int                `json:"divisors,omitempty"`
	Deltas      []float64            `json:"deltas,omitempty"` // fractions, 0.01 = 1%
	Synthetic   *SyntheticOptions    `json:"synthetic,omitempty"`
	IncludeRows bool                 `json:"include_rows,omitempty"` // default: false
}

// SyntheticOptions request a low-price extension. Zero values fall back to
// the configured grid.
type SyntheticOptions struct {
	Enabled  bool    `json:"enabled"`
	MinPrice float64 `json:"min_price,omitempty"`
	Step     float64 `json:"step,omitempty"`
}

// RampRequest is the query of GET /api/v1/ramp. Pointers distinguish a
// missing parameter (400) from a zero one (422).
type RampRequest struct {
	Price *float64 `form:"price" binding:"required"`
	Delta *float64 `form:"delta" binding:"required"` // fraction
}

// SeasonsRequest is the query of GET /api/v1/seasons.
type SeasonsRequest struct {
	MinSeason int `form:"min_season,omitempty"` // default: configured
}
