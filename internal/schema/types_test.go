package schema

import (
	"testing"
)

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		name     string
		typeVal  ValueType
		expected string
	}{
		{"TypeAny", TypeAny, "any"},
		{"TypeString", TypeString, "string"},
		{"TypeText", TypeText, "text"},
		{"TypeInt", TypeInt, "int"},
		{"TypeFloat", TypeFloat, "float"},
		{"TypeBool", TypeBool, "bool"},
		{"TypeUUID", TypeUUID, "uuid"},
		{"TypeTimestamp", TypeTimestamp, "timestamp"},
		{"unknown", ValueType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.typeVal.String()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestParseValueType(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  ValueType
		expectErr bool
	}{
		{"valid string", "string", TypeString, false},
		{"valid int", "int", TypeInt, false},
		{"integer alias", "Integer", TypeInt, false},
		{"valid uuid", "uuid", TypeUUID, false},
		{"empty means any", "", TypeAny, false},
		{"invalid type", "unknown", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseValueType(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if result != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, result)
				}
			}
		})
	}
}

func TestValueTypeCategories(t *testing.T) {
	if !TypeText.IsText() || !TypeString.IsText() {
		t.Error("text types should report IsText")
	}
	if TypeInt.IsText() {
		t.Error("int should not report IsText")
	}
	if !TypeFloat.IsNumeric() || !TypeBigInt.IsNumeric() {
		t.Error("numeric types should report IsNumeric")
	}
	if !TypeDate.IsTemporal() {
		t.Error("date should report IsTemporal")
	}
	if ValueType(-1).Valid() || ValueType(42).Valid() {
		t.Error("out of range types should not be valid")
	}
}
