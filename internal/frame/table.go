// Package frame provides an in-memory table with ordered columns and rows.
// Every operation except Append returns a new table and leaves the receiver
// unchanged; row values are shared between tables, not copied.
package frame

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"text/tabwriter"
)

var (
	// ErrNoColumn is returned when an operation names a column the table lacks
	ErrNoColumn = errors.New("no such column")

	// ErrDuplicateColumn is returned when a column name appears twice
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrRowWidth is returned when a row does not match the column count
	ErrRowWidth = errors.New("row width does not match columns")
)

// Table is an ordered set of named columns over rows of values
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates a table from columns and positional rows
func New(columns []string, rows ...[]any) (*Table, error) {
	t, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(row), len(columns))
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// MustNew is like New but panics on error
func MustNew(columns []string, rows ...[]any) *Table {
	t, err := New(columns, rows...)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty creates a table with columns and no rows
func Empty(columns []string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]any, 0),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}
		t.columns[i] = c
		t.index[c] = i
	}
	return t, nil
}

// FromMaps creates a table from rows keyed by column name. Keys missing from
// a row are stored as nil; keys not listed in columns are ignored.
func FromMaps(columns []string, rows []map[string]any) (*Table, error) {
	t, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = m[c]
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// derive returns an empty table with the same columns
func (t *Table) derive() *Table {
	return &Table{columns: t.columns, index: t.index, rows: make([][]any, 0)}
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn returns true if the table has the column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Row returns the row at position i
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("row %d out of range [0, %d)", i, len(t.rows))
	}
	return Row{table: t, pos: i}, nil
}

// Rows iterates over the rows in order. Each call starts from the first row.
func (t *Table) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range t.rows {
			if !yield(i, Row{table: t, pos: i}) {
				return
			}
		}
	}
}

// Column returns a copy of one column's values
func (t *Table) Column(name string) ([]any, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Filter returns the rows for which keep returns true
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := t.derive()
	for i, row := range t.rows {
		if keep(Row{table: t, pos: i}) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Where returns the rows matching every condition
func (t *Table) Where(conditions ...Condition) (*Table, error) {
	for _, c := range conditions {
		if !t.HasColumn(c.Column) {
			return nil, fmt.Errorf("%w: %s", ErrNoColumn, c.Column)
		}
	}
	return t.Filter(func(r Row) bool {
		for _, c := range conditions {
			if !c.Match(r.Get(c.Column)) {
				return false
			}
		}
		return true
	}), nil
}

// Select projects the table onto the given columns, in the given order
func (t *Table) Select(columns ...string) (*Table, error) {
	positions := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoColumn, c)
		}
		positions[i] = idx
	}

	out, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		projected := make([]any, len(positions))
		for i, p := range positions {
			projected[i] = row[p]
		}
		out.rows = append(out.rows, projected)
	}
	return out, nil
}

// Drop removes columns. Unknown columns are ignored.
func (t *Table) Drop(columns ...string) *Table {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Slice returns rows [start, end), clamped to the table bounds
func (t *Table) Slice(start, end int) *Table {
	start = clamp(start, 0, len(t.rows))
	end = clamp(end, start, len(t.rows))

	out := t.derive()
	out.rows = append(out.rows, t.rows[start:end]...)
	return out
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Tail returns the last n rows
func (t *Table) Tail(n int) *Table {
	return t.Slice(len(t.rows)-n, len(t.rows))
}

// SortBy returns the rows ordered by a column. The sort is stable and nil
// values sort last.
func (t *Table) SortBy(column string, descending bool) (*Table, error) {
	idx, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, column)
	}

	out := t.derive()
	out.rows = append(out.rows, t.rows...)
	sort.SliceStable(out.rows, func(i, j int) bool {
		a, b := out.rows[i][idx], out.rows[j][idx]
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		c := compare(a, b)
		if descending {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

// Rename returns the table with columns renamed according to mapping
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	columns := t.Columns()
	for old := range mapping {
		if !t.HasColumn(old) {
			return nil, fmt.Errorf("%w: %s", ErrNoColumn, old)
		}
	}
	for i, c := range columns {
		if renamed, ok := mapping[c]; ok {
			columns[i] = renamed
		}
	}

	out, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	out.rows = append(out.rows, t.rows...)
	return out, nil
}

// WithColumn returns the table with a column added or replaced
func (t *Table) WithColumn(name string, values []any) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("%w: column %s has %d values, want %d", ErrRowWidth, name, len(values), len(t.rows))
	}

	idx, exists := t.index[name]
	columns := t.Columns()
	if !exists {
		columns = append(columns, name)
		idx = len(columns) - 1
	}

	out, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	for i, row := range t.rows {
		next := make([]any, len(columns))
		copy(next, row)
		next[idx] = values[i]
		out.rows = append(out.rows, next)
	}
	return out, nil
}

// Concat appends the rows of other. Columns are matched by name; columns
// missing from other are filled with nil.
func (t *Table) Concat(other *Table) *Table {
	out := t.derive()
	out.rows = append(out.rows, t.rows...)
	for i := range other.rows {
		out.rows = append(out.rows, other.rowFor(i, t.columns))
	}
	return out
}

// Append adds a row keyed by column name to the table in place
func (t *Table) Append(values map[string]any) {
	row := make([]any, len(t.columns))
	for i, c := range t.columns {
		row[i] = values[c]
	}
	t.rows = append(t.rows, row)
}

// Copy returns a table with its own row storage
func (t *Table) Copy() *Table {
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]any, len(t.rows)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for i, row := range t.rows {
		out.rows[i] = append([]any(nil), row...)
	}
	return out
}

// rowFor returns row i laid out for the given columns
func (t *Table) rowFor(i int, columns []string) []any {
	row := make([]any, len(columns))
	for j, c := range columns {
		if idx, ok := t.index[c]; ok {
			row[j] = t.rows[i][idx]
		}
	}
	return row
}

// String renders the table as aligned text
func (t *Table) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.columns, "\t"))
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return fmt.Sprintf("%s[%d rows x %d columns]", b.String(), len(t.rows), len(t.columns))
}

func formatCell(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprint(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Row is a view of one table row
type Row struct {
	table *Table
	pos   int
}

// Index returns the row position in its table
func (r Row) Index() int {
	return r.pos
}

// Get returns the value of a column, or nil for unknown columns
func (r Row) Get(column string) any {
	idx, ok := r.table.index[column]
	if !ok {
		return nil
	}
	return r.table.rows[r.pos][idx]
}

// Values returns a copy of the row values in column order
func (r Row) Values() []any {
	return append([]any(nil), r.table.rows[r.pos]...)
}

// Map returns the row keyed by column name
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.table.columns))
	for i, c := range r.table.columns {
		out[c] = r.table.rows[r.pos][i]
	}
	return out
}
