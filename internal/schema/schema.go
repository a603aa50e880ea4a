package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrFieldBound is returned when a field descriptor is declared by more than one schema
	ErrFieldBound = errors.New("field is already declared by another schema")

	// ErrUnresolvedParent is returned when extending a schema that was not produced by Define
	ErrUnresolvedParent = errors.New("parent schema is not resolved")
)

// Schema is the resolved, ordered field list of a record type. The parent's
// fields come first, followed by the schema's own fields in declaration order.
type Schema struct {
	name     string
	parent   *Schema
	own      []*Field
	fields   []*Field
	columns  []string
	warnings []string
	resolved bool
}

// Define resolves a schema without a parent
func Define(name string, fields ...*Field) (*Schema, error) {
	return resolve(name, nil, fields)
}

// MustDefine is like Define but panics on error. It is meant for package-level
// schema declarations.
func MustDefine(name string, fields ...*Field) *Schema {
	s, err := Define(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Extend resolves a child schema that inherits every field of s
func (s *Schema) Extend(name string, fields ...*Field) (*Schema, error) {
	if s == nil || !s.resolved {
		return nil, fmt.Errorf("%w: cannot extend into %s", ErrUnresolvedParent, name)
	}
	return resolve(name, s, fields)
}

// MustExtend is like Extend but panics on error
func (s *Schema) MustExtend(name string, fields ...*Field) *Schema {
	child, err := s.Extend(name, fields...)
	if err != nil {
		panic(err)
	}
	return child
}

func resolve(name string, parent *Schema, fields []*Field) (*Schema, error) {
	for i, f := range fields {
		if f == nil {
			return nil, &ValidationError{Resource: name, Message: fmt.Sprintf("field %d is nil", i)}
		}
		if f.owner != nil {
			return nil, fmt.Errorf("%s.%s: %w (%s)", name, f.Name, ErrFieldBound, f.owner.name)
		}
	}

	var inherited []*Field
	if parent != nil {
		inherited = parent.fields
	}

	validator := NewValidator()
	if err := validator.ValidateStructural(name, inherited, fields); err != nil {
		return nil, err
	}

	s := &Schema{
		name:     name,
		parent:   parent,
		warnings: validator.Warnings(),
	}

	s.own = make([]*Field, len(fields))
	for i, f := range fields {
		f.order = i
		f.owner = s
		if f.Column == "" {
			f.Column = f.Name
		}
		s.own[i] = f
	}
	sort.SliceStable(s.own, func(i, j int) bool {
		return s.own[i].order < s.own[j].order
	})

	s.fields = make([]*Field, 0, len(inherited)+len(s.own))
	s.fields = append(s.fields, inherited...)
	s.fields = append(s.fields, s.own...)

	s.columns = make([]string, len(s.fields))
	for i, f := range s.fields {
		s.columns[i] = f.Column
	}

	s.resolved = true
	return s, nil
}

// Name returns the schema name
func (s *Schema) Name() string {
	return s.name
}

// Parent returns the schema this one extends, or nil
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Resolved reports whether the schema was produced by Define or Extend
func (s *Schema) Resolved() bool {
	return s != nil && s.resolved
}

// Fields returns the ordered field list including inherited fields
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// OwnFields returns the fields declared directly by this schema
func (s *Schema) OwnFields() []*Field {
	out := make([]*Field, len(s.own))
	copy(out, s.own)
	return out
}

// Len returns the number of fields, including duplicates
func (s *Schema) Len() int {
	return len(s.fields)
}

// Columns returns the column names in field order
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Field looks up a field by attribute name. When a name is declared more than
// once, the last declaration is returned.
func (s *Schema) Field(name string) (*Field, bool) {
	for i := len(s.fields) - 1; i >= 0; i-- {
		if s.fields[i].Name == name {
			return s.fields[i], true
		}
	}
	return nil, false
}

// FieldByColumn looks up a field by column name, last declaration first
func (s *Schema) FieldByColumn(column string) (*Field, bool) {
	for i := len(s.fields) - 1; i >= 0; i-- {
		if s.fields[i].Column == column {
			return s.fields[i], true
		}
	}
	return nil, false
}

// HasColumn returns true if some field maps to the column
func (s *Schema) HasColumn(column string) bool {
	_, ok := s.FieldByColumn(column)
	return ok
}

// RequiredColumns returns the columns a wrapped table is expected to carry
func (s *Schema) RequiredColumns() []string {
	var out []string
	for _, f := range s.fields {
		if f.Required() {
			out = append(out, f.Column)
		}
	}
	return out
}

// ShapeColumns returns the columns of an empty table shaped from the schema
func (s *Schema) ShapeColumns(includeTransient bool) []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if includeTransient || !f.Transient {
			out = append(out, f.Column)
		}
	}
	return out
}

// Ancestors returns the parent chain starting with the immediate parent
func (s *Schema) Ancestors() []*Schema {
	var out []*Schema
	for p := s.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Warnings returns non-fatal findings recorded while resolving the schema,
// such as a field name redeclared from a parent
func (s *Schema) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// String returns a string representation of the schema
func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s(%s)", s.name, strings.Join(parts, ", "))
}
