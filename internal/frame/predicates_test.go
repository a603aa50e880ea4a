package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionMatch(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cond     Condition
		value    any
		expected bool
	}{
		{"equal numbers across types", Eq("x", "10"), 10, true},
		{"equal text", Eq("x", "ada"), "ada", true},
		{"not equal", Ne("x", "ada"), "bob", true},
		{"greater", Gt("x", 5), 7.5, true},
		{"less", Lt("x", 5), 7.5, false},
		{"gte", Condition{Column: "x", Operator: OpGreaterThanOrEqual, Value: 3}, 3, true},
		{"lte text", Condition{Column: "x", Operator: OpLessThanOrEqual, Value: "b"}, "a", true},
		{"in", In("x", 1, 2, 3), 2, true},
		{"not in", Condition{Column: "x", Operator: OpNotIn, Value: []any{1, 2}}, 2, false},
		{"like", Condition{Column: "x", Operator: OpLike, Value: "a_a%"}, "ada lovelace", true},
		{"like is case sensitive", Condition{Column: "x", Operator: OpLike, Value: "ADA%"}, "ada", false},
		{"ilike", Condition{Column: "x", Operator: OpILike, Value: "ADA%"}, "ada", true},
		{"like escapes meta", Condition{Column: "x", Operator: OpLike, Value: "a.c"}, "abc", false},
		{"like percent spans newlines", Condition{Column: "x", Operator: OpLike, Value: "a%z"}, "a\nz", true},
		{"like underscore matches newline", Condition{Column: "x", Operator: OpLike, Value: "a_z"}, "a\nz", true},
		{"ilike spans newlines", Condition{Column: "x", Operator: OpILike, Value: "A%Z"}, "a\nb\nz", true},
		{"is null", IsNull("x"), nil, true},
		{"is not null", Condition{Column: "x", Operator: OpIsNotNull}, 0, true},
		{"nil never equal", Eq("x", "a"), nil, false},
		{"between", Condition{Column: "x", Operator: OpBetween, Value: []any{1, 10}}, 10, true},
		{"between malformed", Condition{Column: "x", Operator: OpBetween, Value: 1}, 1, false},
		{"times", Gt("x", day), day.Add(time.Hour), true},
		{"bools compare as text", Eq("x", "true"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cond.Match(tt.value))
		})
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input    string
		expected Condition
	}{
		{"name=ada", Condition{Column: "name", Operator: OpEqual, Value: "ada"}},
		{"score >= 10", Condition{Column: "score", Operator: OpGreaterThanOrEqual, Value: "10"}},
		{"score<=1", Condition{Column: "score", Operator: OpLessThanOrEqual, Value: "1"}},
		{"id!=3", Condition{Column: "id", Operator: OpNotEqual, Value: "3"}},
		{"id>3", Condition{Column: "id", Operator: OpGreaterThan, Value: "3"}},
		{"id<3", Condition{Column: "id", Operator: OpLessThan, Value: "3"}},
		{"note is null", Condition{Column: "note", Operator: OpIsNull}},
		{"note IS NOT NULL", Condition{Column: "note", Operator: OpIsNotNull}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cond, err := ParseCondition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cond)
		})
	}

	for _, bad := range []string{"", "=5", "justtext"} {
		_, err := ParseCondition(bad)
		assert.Error(t, err, bad)
	}
}

func TestConditionString(t *testing.T) {
	assert.Equal(t, "id = 3", Eq("id", 3).String())
	assert.Equal(t, "note IS NULL", IsNull("note").String())
	assert.Equal(t, "UNKNOWN", Operator(99).String())
}
