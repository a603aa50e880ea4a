package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMisuse is matched by MisuseError
	ErrSchemaMisuse = errors.New("collection requires a resolved schema")

	// ErrMissingAttribute is matched by MissingAttributeError
	ErrMissingAttribute = errors.New("missing attribute")
)

// MisuseError is returned when a collection is built over a schema that was
// not produced by schema.Define or Schema.Extend
type MisuseError struct {
	Schema string
}

// Error implements the error interface
func (e *MisuseError) Error() string {
	if e.Schema == "" {
		return ErrSchemaMisuse.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchemaMisuse, e.Schema)
}

// Is reports whether target is ErrSchemaMisuse
func (e *MisuseError) Is(target error) bool {
	return target == ErrSchemaMisuse
}

// MissingAttributeError is returned when neither the collection nor its
// table exposes an operation
type MissingAttributeError struct {
	Collection string
	Attribute  string
}

// Error implements the error interface
func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %s", e.Collection, e.Attribute)
}

// Is reports whether target is ErrMissingAttribute
func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}
