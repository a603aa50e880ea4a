package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError represents a schema validation error with context
type ValidationError struct {
	Resource string
	Field    string
	Message  string
	Hint     string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Resource != "" {
		b.WriteString(e.Resource)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Validator validates field declarations before a schema is resolved
type Validator struct {
	errors   []*ValidationError
	warnings []string
}

// NewValidator creates a new schema validator
func NewValidator() *Validator {
	return &Validator{
		errors:   make([]*ValidationError, 0),
		warnings: make([]string, 0),
	}
}

// ValidateStructural checks the declarations of one schema against the
// fields it inherits. Errors abort resolution; duplicate names are only
// recorded as warnings because redeclared fields are appended, not merged.
func (v *Validator) ValidateStructural(name string, inherited, declared []*Field) error {
	v.errors = make([]*ValidationError, 0)
	v.warnings = make([]string, 0)

	if strings.TrimSpace(name) == "" {
		v.errors = append(v.errors, &ValidationError{
			Message: "schema name is required",
		})
	}

	seen := make(map[*Field]bool, len(declared))
	for _, f := range declared {
		if seen[f] {
			v.errors = append(v.errors, &ValidationError{
				Resource: name,
				Field:    f.Name,
				Message:  "field descriptor is declared twice",
				Hint:     "create a new descriptor for each declaration",
			})
		}
		seen[f] = true
		v.validateField(name, f)
	}

	if len(v.errors) > 0 {
		return v.combined()
	}

	v.checkDuplicates(name, inherited, declared)
	return nil
}

func (v *Validator) validateField(resource string, f *Field) {
	if f.Name == "" {
		v.errors = append(v.errors, &ValidationError{
			Resource: resource,
			Message:  "field name is required",
		})
		return
	}

	if strings.IndexFunc(f.Name, unicode.IsSpace) >= 0 {
		v.errors = append(v.errors, &ValidationError{
			Resource: resource,
			Field:    f.Name,
			Message:  "field name must not contain whitespace",
			Hint:     "use WithColumn to map the field to a column with spaces",
		})
	}

	if !f.Type.Valid() {
		v.errors = append(v.errors, &ValidationError{
			Resource: resource,
			Field:    f.Name,
			Message:  fmt.Sprintf("unknown value type %d", int(f.Type)),
		})
	}
}

func (v *Validator) checkDuplicates(resource string, inherited, declared []*Field) {
	names := make(map[string]bool)
	columns := make(map[string]bool)
	for _, f := range inherited {
		names[f.Name] = true
		columns[f.Column] = true
	}

	for _, f := range declared {
		column := f.Column
		if column == "" {
			column = f.Name
		}
		if names[f.Name] {
			v.warnings = append(v.warnings,
				fmt.Sprintf("%s.%s: field name declared more than once; both declarations are kept", resource, f.Name))
		} else if columns[column] {
			v.warnings = append(v.warnings,
				fmt.Sprintf("%s.%s: column %q is mapped by more than one field", resource, f.Name, column))
		}
		names[f.Name] = true
		columns[column] = true
	}
}

func (v *Validator) combined() error {
	if len(v.errors) == 1 {
		return v.errors[0]
	}

	msgs := make([]string, len(v.errors))
	for i, err := range v.errors {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("schema validation failed with %d errors:\n%s", len(v.errors), strings.Join(msgs, "\n"))
}

// Errors returns the errors found by the last validation
func (v *Validator) Errors() []*ValidationError {
	return v.errors
}

// Warnings returns the warnings found by the last validation
func (v *Validator) Warnings() []string {
	return v.warnings
}
