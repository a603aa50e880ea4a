package coerce

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/tabular/internal/schema"
)

// ErrTypeConversion is matched by every ConversionError
var ErrTypeConversion = errors.New("type conversion failed")

// ConversionError is returned when a raw value cannot be turned into a
// field's declared type
type ConversionError struct {
	Field   string
	Column  string
	Value   any
	RawType string
	Type    schema.ValueType
	Err     error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("failed to convert value [%v] of type [%s] to type [%s] for field [%s]",
		e.Value, e.RawType, e.Type, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrTypeConversion
func (e *ConversionError) Is(target error) bool {
	return target == ErrTypeConversion
}

// Unwrap returns the underlying cast or parser error
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsConversionError returns true if err is or wraps a ConversionError
func IsConversionError(err error) bool {
	return errors.Is(err, ErrTypeConversion)
}
