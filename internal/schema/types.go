// Package schema provides field descriptors and ordered record schemas for typed
// views over tabular data. A schema is resolved once when it is defined and is
// read-only afterwards.
package schema

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of a field
type ValueType int

const (
	// TypeAny accepts any value without casting
	TypeAny ValueType = iota

	// Text types
	TypeString
	TypeText

	// Numeric types
	TypeInt
	TypeBigInt
	TypeFloat

	// Boolean
	TypeBool

	// Time types
	TypeTimestamp
	TypeDate

	// Unique identifiers
	TypeUUID

	// JSON documents
	TypeJSON
)

// String returns the string representation of the value type
func (t ValueType) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeBigInt:
		return "bigint"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeTimestamp:
		return "timestamp"
	case TypeDate:
		return "date"
	case TypeUUID:
		return "uuid"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseValueType converts a string to a ValueType
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "":
		return TypeAny, nil
	case "string", "str":
		return TypeString, nil
	case "text":
		return TypeText, nil
	case "int", "integer":
		return TypeInt, nil
	case "bigint", "int64":
		return TypeBigInt, nil
	case "float", "double", "float64":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "timestamp", "datetime":
		return TypeTimestamp, nil
	case "date":
		return TypeDate, nil
	case "uuid":
		return TypeUUID, nil
	case "json":
		return TypeJSON, nil
	default:
		return 0, fmt.Errorf("unknown value type: %s", s)
	}
}

// IsText returns true if the type holds text
func (t ValueType) IsText() bool {
	return t == TypeString || t == TypeText
}

// IsNumeric returns true if the type is a numeric type
func (t ValueType) IsNumeric() bool {
	return t == TypeInt || t == TypeBigInt || t == TypeFloat
}

// IsTemporal returns true if the type holds a point in time
func (t ValueType) IsTemporal() bool {
	return t == TypeTimestamp || t == TypeDate
}

// Valid reports whether t is one of the declared value types
func (t ValueType) Valid() bool {
	return t >= TypeAny && t <= TypeJSON
}
