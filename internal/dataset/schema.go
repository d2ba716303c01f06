package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSchemaConflict is returned when two schemas declare the same column
	// with different types.
	ErrSchemaConflict = errors.New("dataset: schema conflict")

	// ErrUnknownField is returned when a record names a column the schema lacks.
	ErrUnknownField = errors.New("dataset: unknown field")

	// ErrTypeMismatch is returned when a cell value does not match its field type.
	ErrTypeMismatch = errors.New("dataset: type mismatch")
)

// FieldType is the storage type of a column.
type FieldType int

const (
	Float FieldType = iota
	Bool
	Int
	String
)

func (t FieldType) String() string {
	switch t {
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case String:
		return "string"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Default is the fill value for a missing cell of this type:
// 0.0, false, 0 or "".
func (t FieldType) Default() any {
	switch t {
	case Bool:
		return false
	case Int:
		return 0
	case String:
		return ""
	default:
		return 0.0
	}
}

// Accepts reports whether v is a valid cell value for the type.
func (t FieldType) Accepts(v any) bool {
	switch v.(type) {
	case float64:
		return t == Float
	case bool:
		return t == Bool
	case int:
		return t == Int
	case string:
		return t == String
	default:
		return false
	}
}

// Field is one named, typed column.
type Field struct {
	Name string
	Type FieldType
}

// Schema is an ordered list of fields with unique names.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Duplicate names are an error.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("dataset: empty field name")
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate field %q", f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is NewSchema for statically known field lists.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns a copy of the ordered fields.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the ordered column names.
func (s *Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

func (s *Schema) Len() int { return len(s.fields) }

// Lookup returns the field and its position.
func (s *Schema) Lookup(name string) (Field, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, -1, false
	}
	return s.fields[i], i, true
}

// Has reports whether the schema has a column named name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Union returns a schema holding every column of a and b, ordered by name so
// the result does not depend on argument order. A column typed differently
// on each side is an ErrSchemaConflict.
func Union(a, b *Schema) (*Schema, error) {
	byName := make(map[string]Field, a.Len()+b.Len())
	for _, f := range a.fields {
		byName[f.Name] = f
	}
	for _, f := range b.fields {
		if prev, ok := byName[f.Name]; ok {
			if prev.Type != f.Type {
				return nil, fmt.Errorf("%w: column %q is %s on one side and %s on the other",
					ErrSchemaConflict, f.Name, prev.Type, f.Type)
			}
			continue
		}
		byName[f.Name] = f
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, byName[n])
	}
	return NewSchema(fields...)
}
