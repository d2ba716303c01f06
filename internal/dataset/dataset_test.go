package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema(Field{Name: "a", Type: Float}, Field{Name: "a", Type: Int})
	assert.Error(t, err)

	_, err = NewSchema(Field{Name: "", Type: Float})
	assert.Error(t, err)
}

func TestUnionIsOrderIndependent(t *testing.T) {
	a := MustSchema(Field{Name: "a", Type: Float}, Field{Name: "b", Type: Bool})
	b := MustSchema(Field{Name: "c", Type: String}, Field{Name: "b", Type: Bool})

	ab, err := Union(a, b)
	require.NoError(t, err)
	ba, err := Union(b, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, ab.Names())
	assert.Equal(t, ab.Fields(), ba.Fields())
}

func TestUnionConflict(t *testing.T) {
	a := MustSchema(Field{Name: "flag", Type: Bool})
	b := MustSchema(Field{Name: "flag", Type: Float})

	_, err := Union(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaConflict)
	assert.Contains(t, err.Error(), `"flag"`)
}

func TestAppendFillsDefaultsAndChecksTypes(t *testing.T) {
	s := MustSchema(
		Field{Name: "n", Type: Int},
		Field{Name: "x", Type: Float},
		Field{Name: "ok", Type: Bool},
		Field{Name: "tag", Type: String},
	)
	tbl := NewTable(s)

	require.NoError(t, tbl.Append(map[string]any{"x": 1.5}))
	assert.Equal(t, []any{0, 1.5, false, ""}, tbl.Row(0))

	err := tbl.Append(map[string]any{"y": 1.0})
	assert.ErrorIs(t, err, ErrUnknownField)

	err = tbl.Append(map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	assert.Equal(t, 1, tbl.Len())
}

func TestMergeFillsMissingCells(t *testing.T) {
	a, err := FromRecords(
		MustSchema(Field{Name: "a", Type: Float}, Field{Name: "b", Type: Float}),
		[]map[string]any{{"a": 1.0, "b": 2.0}},
	)
	require.NoError(t, err)
	b, err := FromRecords(
		MustSchema(Field{Name: "b", Type: Float}, Field{Name: "c", Type: Bool}),
		[]map[string]any{{"b": 0.5, "c": true}},
	)
	require.NoError(t, err)

	m, err := Merge(a, b, "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, m.Schema().Names())
	require.Equal(t, 2, m.Len())
	assert.Equal(t, []any{0.0, 0.5, true}, m.Row(0))
	assert.Equal(t, []any{1.0, 2.0, false}, m.Row(1))
	for i := 0; i < m.Len(); i++ {
		assert.Len(t, m.Record(i), 3)
	}
}

func TestMergeIsSideIndependent(t *testing.T) {
	hist, err := FromRecords(
		MustSchema(
			Field{Name: "Season", Type: Int},
			Field{Name: "price", Type: Float},
			Field{Name: "isNew", Type: Bool},
		),
		[]map[string]any{
			{"Season": 5, "price": 0.9, "isNew": true},
			{"Season": 6, "price": 0.7},
		},
	)
	require.NoError(t, err)
	synth, err := FromRecords(
		MustSchema(
			Field{Name: "Season", Type: Int},
			Field{Name: "price", Type: Float},
			Field{Name: "source", Type: String},
		),
		[]map[string]any{
			{"Season": -2, "price": 0.3, "source": "synthetic"},
			{"Season": -1, "price": 0.7, "source": "synthetic"},
		},
	)
	require.NoError(t, err)

	ab, err := Merge(hist, synth, "price", "Season")
	require.NoError(t, err)
	ba, err := Merge(synth, hist, "price", "Season")
	require.NoError(t, err)

	assert.Equal(t, ab.Schema().Names(), ba.Schema().Names())
	assert.Equal(t, ab.Records(), ba.Records())

	// Equal price 0.7 is broken by Season.
	assert.Equal(t, -1, ab.Record(1)["Season"])
	assert.Equal(t, 6, ab.Record(2)["Season"])
}

func TestMergeEmptyInputs(t *testing.T) {
	s := MustSchema(Field{Name: "price", Type: Float})
	m, err := Merge(NewTable(s), NewTable(s), "price")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, []string{"price"}, m.Schema().Names())
}

func TestMergeConflictFailsFast(t *testing.T) {
	a := NewTable(MustSchema(Field{Name: "isNewMaxTwaDeltaB", Type: Bool}))
	b := NewTable(MustSchema(Field{Name: "isNewMaxTwaDeltaB", Type: Float}))
	_, err := Merge(a, b)
	assert.ErrorIs(t, err, ErrSchemaConflict)
}

func TestMergeUnknownSortKey(t *testing.T) {
	s := MustSchema(Field{Name: "price", Type: Float})
	_, err := Merge(NewTable(s), NewTable(s), "Season")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestWriteCSV(t *testing.T) {
	tbl, err := FromRecords(
		MustSchema(
			Field{Name: "Season", Type: Int},
			Field{Name: "twaPrice", Type: Float},
			Field{Name: "isNew", Type: Bool},
			Field{Name: "data_source", Type: String},
		),
		[]map[string]any{
			{"Season": 100, "twaPrice": 0.8, "isNew": true, "data_source": "historical"},
			{"Season": -3, "twaPrice": 0.25, "data_source": "synthetic"},
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Season,twaPrice,isNew,data_source", lines[0])
	assert.Equal(t, "100,0.8,True,historical", lines[1])
	assert.Equal(t, "-3,0.25,False,synthetic", lines[2])
}

func TestWriteCSVFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	tbl := NewTable(MustSchema(Field{Name: "x", Type: Float}))
	require.NoError(t, tbl.Append(map[string]any{"x": 5.0}))

	require.NoError(t, WriteCSVFile(path, tbl))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n5\n", string(raw))
}
