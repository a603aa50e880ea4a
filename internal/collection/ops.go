package collection

import (
	"fmt"
	"reflect"

	"github.com/conduit-lang/tabular/internal/entity"
	"github.com/conduit-lang/tabular/internal/frame"
)

// Filter keeps the rows for which keep returns true
func (c *Collection) Filter(keep func(frame.Row) bool) *Collection {
	return c.wrap(c.table.Filter(keep))
}

// FilterRecords keeps the rows whose record satisfies keep. Building a record
// can fail, in which case no collection is returned.
func (c *Collection) FilterRecords(keep func(*entity.Record) bool) (*Collection, error) {
	var failure error
	filtered := c.table.Filter(func(row frame.Row) bool {
		if failure != nil {
			return false
		}
		rec, err := c.record(row)
		if err != nil {
			failure = fmt.Errorf("row %d: %w", row.Index(), err)
			return false
		}
		return keep(rec)
	})
	if failure != nil {
		return nil, failure
	}
	return c.wrap(filtered), nil
}

// Where keeps the rows matching every condition
func (c *Collection) Where(conditions ...frame.Condition) (*Collection, error) {
	return c.Apply(func(t *frame.Table) (*frame.Table, error) {
		return t.Where(conditions...)
	})
}

// Select projects onto the given columns
func (c *Collection) Select(columns ...string) (*Collection, error) {
	return c.Apply(func(t *frame.Table) (*frame.Table, error) {
		return t.Select(columns...)
	})
}

// Drop removes columns
func (c *Collection) Drop(columns ...string) *Collection {
	return c.wrap(c.table.Drop(columns...))
}

// Slice keeps rows [start, end)
func (c *Collection) Slice(start, end int) *Collection {
	return c.wrap(c.table.Slice(start, end))
}

// Head keeps the first n rows
func (c *Collection) Head(n int) *Collection {
	return c.wrap(c.table.Head(n))
}

// Tail keeps the last n rows
func (c *Collection) Tail(n int) *Collection {
	return c.wrap(c.table.Tail(n))
}

// SortBy orders rows by a column
func (c *Collection) SortBy(column string, descending bool) (*Collection, error) {
	return c.Apply(func(t *frame.Table) (*frame.Table, error) {
		return t.SortBy(column, descending)
	})
}

// Rename renames columns
func (c *Collection) Rename(mapping map[string]string) (*Collection, error) {
	return c.Apply(func(t *frame.Table) (*frame.Table, error) {
		return t.Rename(mapping)
	})
}

// Concat appends the rows of other
func (c *Collection) Concat(other *Collection) *Collection {
	return c.wrap(c.table.Concat(other.table))
}

// Apply runs an arbitrary table operation and wraps its result
func (c *Collection) Apply(op func(*frame.Table) (*frame.Table, error)) (*Collection, error) {
	t, err := op(c.table)
	if err != nil {
		return nil, err
	}
	return c.wrap(t), nil
}

// Method looks up an exported method of the wrapped table by name and returns
// a function that calls it. Table results of the call are wrapped in a
// collection of the same kind; other results are returned unchanged. A
// trailing error result is returned as the error.
func (c *Collection) Method(name string) (func(args ...any) (any, error), error) {
	m := reflect.ValueOf(c.table).MethodByName(name)
	if !m.IsValid() {
		return nil, &MissingAttributeError{Collection: c.name, Attribute: name}
	}

	return func(args ...any) (any, error) {
		in, err := callArgs(m.Type(), name, args)
		if err != nil {
			return nil, err
		}
		return c.results(m.Call(in))
	}, nil
}

// Delegate calls a table method by name, see Method
func (c *Collection) Delegate(name string, args ...any) (any, error) {
	fn, err := c.Method(name)
	if err != nil {
		return nil, err
	}
	return fn(args...)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callArgs(mt reflect.Type, name string, args []any) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%s: expected at least %d arguments, got %d", name, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = mt.In(i)
		} else {
			want = mt.In(mt.NumIn() - 1).Elem()
		}

		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		switch {
		case v.Type().AssignableTo(want):
		case numeric(v.Kind()) && numeric(want.Kind()) && lossless(v, want):
			v = v.Convert(want)
		default:
			return nil, fmt.Errorf("%s: argument %d has type %s, want %s", name, i, v.Type(), want)
		}
		in[i] = v
	}
	return in, nil
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// lossless reports whether converting v to want preserves its value
func lossless(v reflect.Value, want reflect.Type) bool {
	converted := v.Convert(want)
	if negative(converted) != negative(v) {
		return false
	}
	return converted.Convert(v.Type()).Interface() == v.Interface()
}

func negative(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() < 0
	case v.CanFloat():
		return v.Float() < 0
	}
	return false
}

func (c *Collection) results(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if errVal := out[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		out = out[:n-1]
	}

	values := make([]any, len(out))
	for i, v := range out {
		values[i] = c.rewrap(v.Interface())
	}

	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	}
	return values, nil
}

func (c *Collection) rewrap(v any) any {
	if t, ok := v.(*frame.Table); ok && t != nil {
		return c.wrap(t)
	}
	return v
}
