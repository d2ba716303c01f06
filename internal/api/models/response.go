package models

import (
	"convert-capacity/internal/analysis"
	"convert-capacity/internal/data"
	"convert-capacity/internal/ramp"
	"convert-capacity/internal/synthetic"
)

// AnalyzeResponse represents the response from an analysis run
type AnalyzeResponse struct {
	Status  string           `json:"status"`
	Summary AnalyzeSummary   `json:"summary"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// AnalyzeSummary contains aggregated results
type AnalyzeSummary struct {
	Seasons       int                 `json:"seasons"`
	FinalExtreme  float64             `json:"final_extreme"`
	NewRecords    []analysis.Record   `json:"new_records"`
	FinalCapacity []DivisorCapacity   `json:"final_capacity"`
	PriceStats    analysis.PriceStats `json:"price_stats"`
	Synthetic     *synthetic.Metadata `json:"synthetic,omitempty"`
}

// DivisorCapacity is the capacity at one divisor.
type DivisorCapacity struct {
	Divisor  int     `json:"divisor"`
	Capacity float64 `json:"capacity"`
}

// RampResponse represents the rates for one (price, delta) pair
type RampResponse struct {
	Price   float64      `json:"price"`
	Delta   float64      `json:"delta"`
	Label   string       `json:"label"`
	Rates   ramp.Rates   `json:"rates"`
	Columns ramp.Columns `json:"columns"`
}

// LaddersResponse lists the configured parameter ladders
type LaddersResponse struct {
	Divisors []DivisorInfo `json:"divisors"`
	Deltas   []DeltaInfo   `json:"deltas"`
}

// DivisorInfo describes one S value
type DivisorInfo struct {
	S      int    `json:"s"`
	Column string `json:"column"`
}

// DeltaInfo describes one Δd value
type DeltaInfo struct {
	Delta   float64      `json:"delta"`
	Percent float64      `json:"percent"`
	Label   string       `json:"label"`
	Columns ramp.Columns `json:"columns"`
}

// ScenarioInfo represents information about a ladder preset
type ScenarioInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	File        string `json:"file"`
	Divisors    int    `json:"divisors"`
	Deltas      int    `json:"deltas"`
}

// SeasonsResponse represents a fetched season series
type SeasonsResponse struct {
	Count   int              `json:"count"`
	Seasons []data.RawSeason `json:"seasons"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
