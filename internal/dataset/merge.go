package dataset

import "fmt"

// Merge concatenates two tables over the union of their schemas and orders
// the result by the given keys.
//
// Cells a side does not have are filled with the field default. Because the
// union schema is name-ordered and rows are sorted, Merge(a, b) and
// Merge(b, a) produce the same table as long as the keys break all ties.
//
// Merge does not deduplicate: merging an already-merged table with one of
// its inputs repeats those rows.
func Merge(a, b *Table, keys ...string) (*Table, error) {
	schema, err := Union(a.schema, b.schema)
	if err != nil {
		return nil, err
	}

	left, err := a.Project(schema)
	if err != nil {
		return nil, fmt.Errorf("align left: %w", err)
	}
	right, err := b.Project(schema)
	if err != nil {
		return nil, fmt.Errorf("align right: %w", err)
	}

	out := &Table{schema: schema, rows: make([][]any, 0, left.Len()+right.Len())}
	out.rows = append(out.rows, left.rows...)
	out.rows = append(out.rows, right.rows...)

	if len(keys) > 0 {
		if err := out.SortBy(keys...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
