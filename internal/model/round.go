package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// OutputPlaces is the fixed presentation precision of every derived column.
const OutputPlaces = 3

// Round3 rounds x to OutputPlaces decimals.
func Round3(x float64) float64 {
	return Round(x, OutputPlaces)
}

// Round rounds x to the given number of decimals, working from the exact
// binary value of x. NaN and ±Inf are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloatWithExponent(x, -places).InexactFloat64()
}
