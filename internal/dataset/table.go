package dataset

import (
	"fmt"
	"sort"
)

// Table is a row set aligned to a Schema. Every row holds exactly one value
// per field; there are no absent cells.
type Table struct {
	schema *Schema
	rows   [][]any
}

// NewTable returns an empty table for s.
func NewTable(s *Schema) *Table {
	return &Table{schema: s}
}

// FromRecords builds a table from name-keyed records.
func FromRecords(s *Schema, records []map[string]any) (*Table, error) {
	t := NewTable(s)
	for i, rec := range records {
		if err := t.Append(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return t, nil
}

func (t *Table) Schema() *Schema { return t.schema }

func (t *Table) Len() int { return len(t.rows) }

// Append adds one record. Columns missing from rec get the field's default;
// columns not in the schema and mistyped values are errors.
func (t *Table) Append(rec map[string]any) error {
	row := make([]any, t.schema.Len())
	for i, f := range t.schema.fields {
		row[i] = f.Type.Default()
	}
	for name, v := range rec {
		f, i, ok := t.schema.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if !f.Type.Accepts(v) {
			return fmt.Errorf("%w: column %q wants %s, got %T", ErrTypeMismatch, name, f.Type, v)
		}
		row[i] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the cells of row i in schema order.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns one cell by column name.
func (t *Table) Value(i int, name string) (any, bool) {
	_, j, ok := t.schema.Lookup(name)
	if !ok {
		return nil, false
	}
	return t.rows[i][j], true
}

// Float returns a float cell, or 0 when the column is absent or not a float.
func (t *Table) Float(i int, name string) float64 {
	v, _ := t.Value(i, name)
	f, _ := v.(float64)
	return f
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]any {
	out := make(map[string]any, t.schema.Len())
	for j, f := range t.schema.fields {
		out[f.Name] = t.rows[i][j]
	}
	return out
}

// Records returns every row keyed by column name.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, t.Record(i))
	}
	return out
}

// Project re-aligns t onto a schema that contains every column of t,
// filling new columns with their defaults.
func (t *Table) Project(s *Schema) (*Table, error) {
	mapping := make([]int, t.schema.Len())
	for i, f := range t.schema.fields {
		g, j, ok := s.Lookup(f.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q missing from target schema", ErrUnknownField, f.Name)
		}
		if g.Type != f.Type {
			return nil, fmt.Errorf("%w: column %q is %s, target wants %s", ErrSchemaConflict, f.Name, f.Type, g.Type)
		}
		mapping[i] = j
	}

	out := &Table{schema: s, rows: make([][]any, 0, len(t.rows))}
	for _, src := range t.rows {
		row := make([]any, s.Len())
		for j, f := range s.fields {
			row[j] = f.Type.Default()
		}
		for i, v := range src {
			row[mapping[i]] = v
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// SortBy orders rows ascending by the given keys, earlier keys first.
// The sort is stable.
func (t *Table) SortBy(keys ...string) error {
	idx := make([]int, len(keys))
	for k, name := range keys {
		_, j, ok := t.schema.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: sort key %q", ErrUnknownField, name)
		}
		idx[k] = j
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		for _, j := range idx {
			if c := compareCells(t.rows[a][j], t.rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return nil
}

func compareCells(a, b any) int {
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case int:
		y := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case string:
		y := b.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case bool:
		y := b.(bool)
		if x != y {
			if !x {
				return -1
			}
			return 1
		}
	}
	return 0
}
