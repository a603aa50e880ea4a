// Package coerce turns loosely typed input values into the declared types of
// schema fields, applying null handling, defaults and custom parsers.
package coerce

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/tabular/internal/schema"
)

// Engine coerces raw values for schema fields
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a coercion engine. A nil logger discards output.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

var defaultEngine = NewEngine(nil)

// Default returns an engine without logging
func Default() *Engine {
	return defaultEngine
}

// Logger returns the engine's logger
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Coerce converts raw into the type declared by field.
//
// Null input is replaced by the field default, then by the default
// generator. A configured parser receives the resulting value and its output
// is used as is. A defaulted value that is still null, including empty text
// for non-text fields, yields nil. Otherwise values that are not already of the declared type
// are cast; failures are logged and returned as *ConversionError.
func (e *Engine) Coerce(raw any, field *schema.Field) (any, error) {
	value := raw
	if e.isNull(value, field) {
		value = nil
		if !IsNull(field.Default, false) {
			value = field.Default
		}
		if value == nil && field.DefaultFunc != nil {
			value = field.DefaultFunc(field)
		}
	}

	if field.Parser != nil {
		parsed, err := field.Parser(value)
		if err != nil {
			return nil, e.fail(field, raw, value, err)
		}
		return parsed, nil
	}

	if e.isNull(value, field) {
		return nil, nil
	}

	if IsInstance(value, field.Type) {
		return value, nil
	}

	result, err := Cast(value, field.Type)
	if err != nil {
		return nil, e.fail(field, raw, value, err)
	}
	return result, nil
}

// isNull applies the null rules for one field: empty text counts as null
// unless the field holds text
func (e *Engine) isNull(v any, field *schema.Field) bool {
	if IsNull(v, false) {
		return true
	}
	return !field.Type.IsText() && isBlankText(v)
}

func (e *Engine) fail(field *schema.Field, raw, value any, cause error) error {
	err := &ConversionError{
		Field:   field.Name,
		Column:  field.Column,
		Value:   value,
		RawType: fmt.Sprintf("%T", value),
		Type:    field.Type,
		Err:     cause,
	}

	e.logger.Error("value conversion failed",
		zap.String("field", field.Name),
		zap.String("column", field.Column),
		zap.Any("value", value),
		zap.Any("raw", raw),
		zap.String("raw_type", err.RawType),
		zap.Stringer("declared_type", field.Type),
		zap.Error(cause),
	)
	return err
}
