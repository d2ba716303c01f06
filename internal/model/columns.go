package model

import "fmt"

// Column names shared with the rendering scripts that read our CSV output.
// These are part of the file format and must not change.
const (
	ColSeason               = "Season"
	ColTwaDeltaB            = "twaDeltaB"
	ColTwaPrice             = "twaPrice"
	ColL2SR                 = "l2sr"
	ColPodRate              = "podRate"
	ColMaxNegativeTwaDeltaB = "maxNegativeTwaDeltaB"
	ColIsNewMaxTwaDeltaB    = "isNewMaxTwaDeltaB"
	ColDataSource           = "data_source"
)

// CapacityColumn names the capacity column for divisor s.
func CapacityColumn(s int) string {
	return fmt.Sprintf("Capacity_at_Smin_%d", s)
}
