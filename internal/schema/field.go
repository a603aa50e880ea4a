package schema

import "fmt"

// DefaultFunc generates a default value for a field whose input is null
type DefaultFunc func(field *Field) any

// Parser converts a raw input value into a field value. A parser replaces
// the default cast for the field it is attached to.
type Parser func(raw any) (any, error)

// Field describes one named, typed attribute of a record
type Field struct {
	// Name is the attribute name used for record storage
	Name string

	// Column is the external name used for table lookup. Defaults to Name.
	Column string

	Type        ValueType
	Default     any
	DefaultFunc DefaultFunc
	Parser      Parser

	// Transient fields are left out of empty table shapes
	Transient bool

	// NoSelect fields are not required to be present in wrapped tables
	NoSelect bool

	order int
	owner *Schema
}

// FieldOption configures a Field
type FieldOption func(*Field)

// NewField creates a field descriptor
func NewField(name string, t ValueType, opts ...FieldOption) *Field {
	f := &Field{
		Name:  name,
		Type:  t,
		order: -1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithColumn overrides the column name
func WithColumn(column string) FieldOption {
	return func(f *Field) {
		f.Column = column
	}
}

// WithDefault sets the value used when the input is null
func WithDefault(value any) FieldOption {
	return func(f *Field) {
		f.Default = value
	}
}

// WithDefaultFunc sets a generator invoked when the input is null and no
// default value applies
func WithDefaultFunc(fn DefaultFunc) FieldOption {
	return func(f *Field) {
		f.DefaultFunc = fn
	}
}

// WithParser sets a custom value parser
func WithParser(p Parser) FieldOption {
	return func(f *Field) {
		f.Parser = p
	}
}

// Transient marks the field as transient
func Transient() FieldOption {
	return func(f *Field) {
		f.Transient = true
	}
}

// NoSelect marks the field as optional in wrapped tables
func NoSelect() FieldOption {
	return func(f *Field) {
		f.NoSelect = true
	}
}

// String declares a string field
func String(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeString, opts...)
}

// Text declares a text field
func Text(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeText, opts...)
}

// Int declares an int field
func Int(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeInt, opts...)
}

// BigInt declares an int64 field
func BigInt(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeBigInt, opts...)
}

// Float declares a float64 field
func Float(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeFloat, opts...)
}

// Bool declares a bool field
func Bool(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeBool, opts...)
}

// Timestamp declares a timestamp field
func Timestamp(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeTimestamp, opts...)
}

// Date declares a date field
func Date(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeDate, opts...)
}

// UUID declares a UUID field
func UUID(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeUUID, opts...)
}

// JSON declares a JSON document field
func JSON(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeJSON, opts...)
}

// Any declares a field that accepts any value
func Any(name string, opts ...FieldOption) *Field {
	return NewField(name, TypeAny, opts...)
}

// Order returns the position of the field in the schema that declared it,
// or -1 if the field has not been bound to a schema yet
func (f *Field) Order() int {
	return f.order
}

// Owner returns the schema that declared the field
func (f *Field) Owner() *Schema {
	return f.owner
}

// Required reports whether wrapped tables must carry the field's column
func (f *Field) Required() bool {
	return !f.Transient && !f.NoSelect
}

// String returns a string representation of the field
func (f *Field) String() string {
	column := f.Column
	if column == "" {
		column = f.Name
	}
	return fmt.Sprintf("%s [%s]", column, f.Type)
}
