// Package entity provides records: one coerced value per schema field.
package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conduit-lang/tabular/internal/coerce"
	"github.com/conduit-lang/tabular/internal/schema"
)

var (
	// ErrUnknownField is returned when setting an attribute the schema does not declare
	ErrUnknownField = errors.New("unknown field")

	// ErrNoSchema is returned when building a record without a resolved schema
	ErrNoSchema = errors.New("record schema is not resolved")
)

// FieldValue pairs a column name with the record's current value
type FieldValue struct {
	Column string
	Value  any
}

// Record holds one value per field of its schema, keyed by attribute name
type Record struct {
	schema *schema.Schema
	values map[string]any
}

// New builds a record from values keyed by column name using the default
// coercion engine
func New(s *schema.Schema, values map[string]any) (*Record, error) {
	return NewWithEngine(s, values, coerce.Default())
}

// NewWithEngine builds a record from values keyed by column name. Every field
// is coerced in schema order; a missing key is treated as null input. The
// first coercion failure aborts construction.
func NewWithEngine(s *schema.Schema, values map[string]any, engine *coerce.Engine) (*Record, error) {
	if !s.Resolved() {
		return nil, ErrNoSchema
	}
	if engine == nil {
		engine = coerce.Default()
	}

	r := &Record{
		schema: s,
		values: make(map[string]any, s.Len()),
	}
	for _, f := range s.Fields() {
		value, err := engine.Coerce(values[f.Column], f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		r.values[f.Name] = value
	}
	return r, nil
}

// MustNew is like New but panics on error
func MustNew(s *schema.Schema, values map[string]any) *Record {
	r, err := New(s, values)
	if err != nil {
		panic(err)
	}
	return r
}

// Schema returns the record's schema
func (r *Record) Schema() *schema.Schema {
	return r.schema
}

// Columns returns the column names of the record's schema
func (r *Record) Columns() []string {
	return r.schema.Columns()
}

// Get returns the value stored under an attribute name
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value stored under an attribute name, or nil
func (r *Record) Value(name string) any {
	return r.values[name]
}

// Set replaces the value of a declared attribute. The value is stored as is.
func (r *Record) Set(name string, value any) error {
	if _, ok := r.values[name]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Name(), name)
	}
	r.values[name] = value
	return nil
}

// HasValue reports whether the attribute holds a non-null value
func (r *Record) HasValue(name string) bool {
	v, ok := r.values[name]
	if !ok || v == nil {
		return false
	}
	_, placeholder := v.(*schema.Field)
	return !placeholder
}

// FieldValues returns the record's values in schema order keyed by column
func (r *Record) FieldValues() []FieldValue {
	fields := r.schema.Fields()
	out := make([]FieldValue, len(fields))
	for i, f := range fields {
		out[i] = FieldValue{Column: f.Column, Value: r.values[f.Name]}
	}
	return out
}

// Map returns the record's values keyed by column name
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for _, f := range r.schema.Fields() {
		out[f.Column] = r.values[f.Name]
	}
	return out
}

// ToTuple returns the values for the given columns, or for every schema
// column when none are given. Unknown columns yield nil.
func (r *Record) ToTuple(columns ...string) []any {
	if len(columns) == 0 {
		columns = r.schema.Columns()
	}

	out := make([]any, len(columns))
	for i, column := range columns {
		if f, ok := r.schema.FieldByColumn(column); ok {
			out[i] = r.values[f.Name]
			continue
		}
		out[i] = r.values[column]
	}
	return out
}

// Copy returns a shallow copy of the record
func (r *Record) Copy() *Record {
	values := make(map[string]any, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return &Record{schema: r.schema, values: values}
}

// IsNull reports false: a record is never a missing value
func (r *Record) IsNull() bool {
	return false
}

// String returns a string representation of the record
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.schema.Name())
	b.WriteString("(")
	for i, fv := range r.FieldValues() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", fv.Column, fv.Value)
	}
	b.WriteString(")")
	return b.String()
}
