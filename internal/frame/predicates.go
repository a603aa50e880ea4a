package frame

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Operator represents a comparison operator
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpIn
	OpNotIn
	OpLike
	OpILike
	OpIsNull
	OpIsNotNull
	OpBetween
)

// String returns the string representation of the operator
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpLike:
		return "LIKE"
	case OpILike:
		return "ILIKE"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpBetween:
		return "BETWEEN"
	default:
		return "UNKNOWN"
	}
}

// Condition matches a single column value
type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

// Eq creates an equality condition
func Eq(column string, value any) Condition {
	return Condition{Column: column, Operator: OpEqual, Value: value}
}

// Ne creates an inequality condition
func Ne(column string, value any) Condition {
	return Condition{Column: column, Operator: OpNotEqual, Value: value}
}

// Gt creates a greater-than condition
func Gt(column string, value any) Condition {
	return Condition{Column: column, Operator: OpGreaterThan, Value: value}
}

// Lt creates a less-than condition
func Lt(column string, value any) Condition {
	return Condition{Column: column, Operator: OpLessThan, Value: value}
}

// In creates a membership condition
func In(column string, values ...any) Condition {
	return Condition{Column: column, Operator: OpIn, Value: values}
}

// IsNull creates a condition matching nil values
func IsNull(column string) Condition {
	return Condition{Column: column, Operator: OpIsNull}
}

// Match reports whether v satisfies the condition. Comparisons against nil
// are false except for IS NULL.
func (c Condition) Match(v any) bool {
	switch c.Operator {
	case OpIsNull:
		return v == nil
	case OpIsNotNull:
		return v != nil
	}

	if v == nil {
		return false
	}

	switch c.Operator {
	case OpEqual:
		return equal(v, c.Value)
	case OpNotEqual:
		return !equal(v, c.Value)
	case OpGreaterThan:
		return compare(v, c.Value) > 0
	case OpGreaterThanOrEqual:
		return compare(v, c.Value) >= 0
	case OpLessThan:
		return compare(v, c.Value) < 0
	case OpLessThanOrEqual:
		return compare(v, c.Value) <= 0
	case OpIn, OpNotIn:
		values, _ := c.Value.([]any)
		found := false
		for _, candidate := range values {
			if equal(v, candidate) {
				found = true
				break
			}
		}
		return found == (c.Operator == OpIn)
	case OpLike:
		return like(fmt.Sprint(v), fmt.Sprint(c.Value), false)
	case OpILike:
		return like(fmt.Sprint(v), fmt.Sprint(c.Value), true)
	case OpBetween:
		bounds, ok := c.Value.([]any)
		if !ok || len(bounds) != 2 {
			return false
		}
		return compare(v, bounds[0]) >= 0 && compare(v, bounds[1]) <= 0
	}
	return false
}

// String returns a string representation of the condition
func (c Condition) String() string {
	switch c.Operator {
	case OpIsNull, OpIsNotNull:
		return fmt.Sprintf("%s %s", c.Column, c.Operator)
	}
	return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Value)
}

// ParseCondition parses expressions such as "score>=10", "name=ada" or
// "note IS NULL". The value is kept as text.
func ParseCondition(expr string) (Condition, error) {
	expr = strings.TrimSpace(expr)
	upper := strings.ToUpper(expr)

	for _, suffix := range []struct {
		text string
		op   Operator
	}{
		{" IS NOT NULL", OpIsNotNull},
		{" IS NULL", OpIsNull},
	} {
		if strings.HasSuffix(upper, suffix.text) {
			column := strings.TrimSpace(expr[:len(expr)-len(suffix.text)])
			if column == "" {
				break
			}
			return Condition{Column: column, Operator: suffix.op}, nil
		}
	}

	// Two-character operators must be tried before their one-character prefixes.
	for _, op := range []Operator{OpNotEqual, OpGreaterThanOrEqual, OpLessThanOrEqual, OpEqual, OpGreaterThan, OpLessThan} {
		symbol := op.String()
		if idx := strings.Index(expr, symbol); idx > 0 {
			column := strings.TrimSpace(expr[:idx])
			value := strings.TrimSpace(expr[idx+len(symbol):])
			return Condition{Column: column, Operator: op, Value: value}, nil
		}
	}

	return Condition{}, fmt.Errorf("invalid condition %q: expected <column><op><value>", expr)
}

func equal(a, b any) bool {
	if fa, fb, ok := numbers(a, b); ok {
		return fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compare orders two values numerically, chronologically or as text
func compare(a, b any) int {
	if fa, fb, ok := numbers(a, b); ok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func numbers(a, b any) (float64, float64, bool) {
	if _, isBool := a.(bool); isBool {
		return 0, 0, false
	}
	if _, isBool := b.(bool); isBool {
		return 0, 0, false
	}
	fa, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, 0, false
	}
	fb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, 0, false
	}
	return fa, fb, true
}

// like matches SQL LIKE patterns where % is any run and _ is any character
func like(s, pattern string, fold bool) bool {
	var b strings.Builder
	if fold {
		b.WriteString("(?is)")
	} else {
		b.WriteString("(?s)")
	}
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
