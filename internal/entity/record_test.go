package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/tabular/internal/coerce"
	"github.com/conduit-lang/tabular/internal/schema"
)

func playerSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Define("Player",
		schema.Int("id"),
		schema.String("name", schema.WithDefault("")),
		schema.Float("score", schema.WithDefaultFunc(func(*schema.Field) any { return 0.0 })),
	)
	require.NoError(t, err)
	return s
}

func TestNewCoercesInSchemaOrder(t *testing.T) {
	s := playerSchema(t)

	r, err := New(s, map[string]any{"id": "7", "name": nil, "score": nil})
	require.NoError(t, err)

	assert.Equal(t, []FieldValue{
		{Column: "id", Value: 7},
		{Column: "name", Value: ""},
		{Column: "score", Value: 0.0},
	}, r.FieldValues())
	assert.Equal(t, []string{"id", "name", "score"}, r.Columns())
}

func TestNewMissingKeysAreNull(t *testing.T) {
	r, err := New(playerSchema(t), map[string]any{})
	require.NoError(t, err)

	assert.False(t, r.HasValue("id"))
	assert.True(t, r.HasValue("name"))
	assert.Equal(t, 0.0, r.Value("score"))
}

func TestNewConversionFailure(t *testing.T) {
	_, err := New(playerSchema(t), map[string]any{"id": "not-a-number"})
	require.Error(t, err)

	var convErr *coerce.ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "id", convErr.Field)
	assert.Contains(t, err.Error(), "Player:")
}

func TestNewRequiresResolvedSchema(t *testing.T) {
	_, err := New(&schema.Schema{}, nil)
	assert.ErrorIs(t, err, ErrNoSchema)

	_, err = New(nil, nil)
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestColumnNamesDifferFromAttributes(t *testing.T) {
	s := schema.MustDefine("Renamed",
		schema.Int("id", schema.WithColumn("ID")),
		schema.String("title", schema.WithColumn("Title Text")),
	)

	r, err := New(s, map[string]any{"ID": 3, "Title Text": "hello", "title": "ignored"})
	require.NoError(t, err)

	v, ok := r.Get("title")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, map[string]any{"ID": 3, "Title Text": "hello"}, r.Map())
	assert.Equal(t, []any{"hello", 3}, r.ToTuple("Title Text", "ID"))
	assert.Equal(t, []any{3, "hello"}, r.ToTuple("id", "title"))
}

func TestToTupleRoundTrip(t *testing.T) {
	s := playerSchema(t)
	original := MustNew(s, map[string]any{"id": 12, "name": "ada", "score": "9.5"})

	tuple := original.ToTuple()
	values := make(map[string]any, len(tuple))
	for i, column := range s.Columns() {
		values[column] = tuple[i]
	}

	rebuilt, err := New(s, values)
	require.NoError(t, err)
	assert.Equal(t, original.FieldValues(), rebuilt.FieldValues())
}

func TestToTupleUnknownColumn(t *testing.T) {
	r := MustNew(playerSchema(t), map[string]any{"id": 1})
	assert.Equal(t, []any{1, nil}, r.ToTuple("id", "nope"))
}

func TestSetAndCopy(t *testing.T) {
	r := MustNew(playerSchema(t), map[string]any{"id": 1, "name": "a"})
	tags := []string{"x"}
	require.NoError(t, r.Set("score", tags))

	c := r.Copy()
	require.NoError(t, c.Set("name", "b"))
	assert.Equal(t, "a", r.Value("name"))
	assert.Equal(t, "b", c.Value("name"))

	shared := c.Value("score").([]string)
	shared[0] = "y"
	assert.Equal(t, "y", tags[0], "copies share value references")

	err := r.Set("missing", 1)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestHasValue(t *testing.T) {
	r := MustNew(playerSchema(t), map[string]any{"id": 1})
	placeholder := schema.Int("tmp")
	require.NoError(t, r.Set("name", placeholder))

	assert.True(t, r.HasValue("id"))
	assert.False(t, r.HasValue("name"))
	assert.False(t, r.HasValue("unknown"))
}

func TestRecordNeverNull(t *testing.T) {
	r := MustNew(playerSchema(t), nil)
	assert.False(t, coerce.IsNull(r, true))
}

func TestInheritedRecord(t *testing.T) {
	base := schema.MustDefine("Base", schema.Int("id"))
	child := base.MustExtend("Child", schema.Bool("active", schema.WithDefault(false)))

	r := MustNew(child, map[string]any{"id": "5"})
	assert.Equal(t, "Child(id=5, active=false)", r.String())
}

func TestRedeclaredFieldLastWriteWins(t *testing.T) {
	base := schema.MustDefine("Base", schema.String("code"))
	child := base.MustExtend("Child", schema.Int("code"))

	r, err := New(child, map[string]any{"code": "42"})
	require.NoError(t, err)
	assert.Equal(t, []FieldValue{{Column: "code", Value: 42}, {Column: "code", Value: 42}}, r.FieldValues())
}
