package model

// DataSource tags where an output row came from.
// Keep these values stable; they are written to the data_source column.
type DataSource string

const (
	SourceHistorical DataSource = "historical"
	SourceSynthetic  DataSource = "synthetic"
)

// Valid reports whether s is one of the known provenance values.
func (s DataSource) Valid() bool {
	switch s {
	case SourceHistorical, SourceSynthetic:
		return true
	default:
		return false
	}
}
