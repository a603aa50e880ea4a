package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]string{"id", "name", "score"},
		[]any{1, "ada", 9.5},
		[]any{2, "bob", 7.0},
		[]any{3, "cy", nil},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New([]string{"a", "a"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New([]string{"a", "b"}, []any{1})
	assert.ErrorIs(t, err, ErrRowWidth)

	assert.Panics(t, func() { MustNew([]string{"x", "x"}) })
}

func TestTableBasics(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, []string{"id", "name", "score"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 3, tbl.Width())
	assert.True(t, tbl.HasColumn("name"))

	row, err := tbl.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "bob", row.Get("name"))
	assert.Nil(t, row.Get("missing"))
	assert.Equal(t, map[string]any{"id": 2, "name": "bob", "score": 7.0}, row.Map())
	assert.Equal(t, []any{2, "bob", 7.0}, row.Values())

	_, err = tbl.Row(5)
	assert.Error(t, err)

	names, err := tbl.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"ada", "bob", "cy"}, names)

	_, err = tbl.Column("nope")
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestRowsIsRestartable(t *testing.T) {
	tbl := sampleTable(t)

	collect := func() []int {
		var ids []int
		for i, row := range tbl.Rows() {
			assert.Equal(t, i, row.Index())
			ids = append(ids, row.Get("id").(int))
		}
		return ids
	}

	assert.Equal(t, []int{1, 2, 3}, collect())
	assert.Equal(t, []int{1, 2, 3}, collect())

	for _, row := range tbl.Rows() {
		assert.Equal(t, 1, row.Get("id"))
		break
	}
}

func TestFilterAndWhere(t *testing.T) {
	tbl := sampleTable(t)

	high := tbl.Filter(func(r Row) bool {
		score, ok := r.Get("score").(float64)
		return ok && score > 8
	})
	assert.Equal(t, 1, high.Len())
	assert.Equal(t, 3, tbl.Len(), "receiver is unchanged")

	got, err := tbl.Where(Gt("id", "1"), IsNull("score"))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	row, _ := got.Row(0)
	assert.Equal(t, "cy", row.Get("name"))

	_, err = tbl.Where(Eq("ghost", 1))
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestSelectDropRename(t *testing.T) {
	tbl := sampleTable(t)

	projected, err := tbl.Select("name", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, projected.Columns())
	row, _ := projected.Row(0)
	assert.Equal(t, []any{"ada", 1}, row.Values())

	_, err = tbl.Select("id", "nope")
	assert.ErrorIs(t, err, ErrNoColumn)

	dropped := tbl.Drop("score", "unknown")
	assert.Equal(t, []string{"id", "name"}, dropped.Columns())

	renamed, err := tbl.Rename(map[string]string{"name": "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "score"}, renamed.Columns())

	_, err = tbl.Rename(map[string]string{"name": "id"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestSliceHeadTail(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())

	tail := tbl.Tail(1)
	row, _ := tail.Row(0)
	assert.Equal(t, 3, row.Get("id"))
	assert.Equal(t, 3, tbl.Tail(5).Len())

	mid := tbl.Slice(1, 2)
	row, _ = mid.Row(0)
	assert.Equal(t, "bob", row.Get("name"))
	assert.Equal(t, 0, tbl.Slice(2, 1).Len())
}

func TestSortBy(t *testing.T) {
	tbl := sampleTable(t)

	asc, err := tbl.SortBy("score", false)
	require.NoError(t, err)
	ids, _ := asc.Column("id")
	assert.Equal(t, []any{2, 1, 3}, ids)

	desc, err := tbl.SortBy("score", true)
	require.NoError(t, err)
	ids, _ = desc.Column("id")
	assert.Equal(t, []any{1, 2, 3}, ids)

	_, err = tbl.SortBy("nope", false)
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestWithColumnConcatAppend(t *testing.T) {
	tbl := sampleTable(t)

	added, err := tbl.WithColumn("rank", []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score", "rank"}, added.Columns())
	assert.False(t, tbl.HasColumn("rank"))

	replaced, err := tbl.WithColumn("name", []any{"x", "y", "z"})
	require.NoError(t, err)
	names, _ := replaced.Column("name")
	assert.Equal(t, []any{"x", "y", "z"}, names)
	original, _ := tbl.Column("name")
	assert.Equal(t, []any{"ada", "bob", "cy"}, original)

	_, err = tbl.WithColumn("short", []any{1})
	assert.ErrorIs(t, err, ErrRowWidth)

	other := MustNew([]string{"name", "id"}, []any{"dee", 4})
	joined := tbl.Concat(other)
	assert.Equal(t, 4, joined.Len())
	row, _ := joined.Row(3)
	assert.Equal(t, map[string]any{"id": 4, "name": "dee", "score": nil}, row.Map())

	copyTbl := tbl.Copy()
	copyTbl.Append(map[string]any{"id": 9})
	assert.Equal(t, 4, copyTbl.Len())
	assert.Equal(t, 3, tbl.Len())
}

func TestFromMaps(t *testing.T) {
	tbl, err := FromMaps([]string{"a", "b"}, []map[string]any{
		{"a": 1, "b": 2, "c": 3},
		{"a": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	row, _ := tbl.Row(1)
	assert.Equal(t, []any{4, nil}, row.Values())
}

func TestString(t *testing.T) {
	tbl := MustNew([]string{"id", "name"}, []any{1, "ada"}, []any{22, nil})
	out := tbl.String()
	assert.Contains(t, out, "id  name")
	assert.Contains(t, out, "22  <nil>")
	assert.Contains(t, out, "[2 rows x 2 columns]")
}
