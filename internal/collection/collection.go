// Package collection wraps tables in a typed view that yields records of a
// schema. Table operations invoked through a collection return a new
// collection of the same kind, so the typed view follows the result.
package collection

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/conduit-lang/tabular/internal/coerce"
	"github.com/conduit-lang/tabular/internal/entity"
	"github.com/conduit-lang/tabular/internal/frame"
	"github.com/conduit-lang/tabular/internal/schema"
)

// Collection is a typed view over a table
type Collection struct {
	table  *frame.Table
	base   *schema.Schema
	name   string
	engine *coerce.Engine
	logger *zap.Logger
	extra  map[string]any
	attrs  map[string]any
}

type options struct {
	table            *frame.Table
	from             *Collection
	includeTransient bool
	name             string
	logger           *zap.Logger
	engine           *coerce.Engine
	extra            map[string]any
	attrs            map[string]any
}

// Option configures a Collection
type Option func(*options)

// WithTable wraps an existing table
func WithTable(t *frame.Table) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithCollection wraps the table of another collection
func WithCollection(c *Collection) Option {
	return func(o *options) {
		o.from = c
	}
}

// IncludeTransient keeps transient columns when allocating an empty table
func IncludeTransient() Option {
	return func(o *options) {
		o.includeTransient = true
	}
}

// WithName sets the collection kind reported in errors. Defaults to the
// schema name followed by "Collection".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for missing column warnings
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEngine sets the coercion engine used to build records
func WithEngine(engine *coerce.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithExtraArguments adds constant values to every row before a record is
// built from it. Extra values override row values with the same column.
func WithExtraArguments(values map[string]any) Option {
	return func(o *options) {
		if o.extra == nil {
			o.extra = make(map[string]any, len(values))
		}
		for k, v := range values {
			o.extra[k] = v
		}
	}
}

// WithAttribute attaches a value that is carried over to every collection
// derived from this one
func WithAttribute(key string, value any) Option {
	return func(o *options) {
		if o.attrs == nil {
			o.attrs = make(map[string]any)
		}
		o.attrs[key] = value
	}
}

// New creates a collection for base. Without a table, an empty table shaped
// from the schema is allocated.
func New(base *schema.Schema, opts ...Option) (*Collection, error) {
	if base == nil {
		return nil, &MisuseError{}
	}
	if !base.Resolved() {
		return nil, &MisuseError{Schema: base.Name()}
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Collection{
		base:   base,
		name:   o.name,
		engine: o.engine,
		logger: o.logger,
		extra:  o.extra,
		attrs:  o.attrs,
	}
	if c.name == "" {
		c.name = base.Name() + "Collection"
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.engine == nil {
		c.engine = coerce.NewEngine(c.logger)
	}

	table := o.table
	if o.from != nil {
		table = o.from.table
	}

	if table == nil {
		empty, err := frame.Empty(uniqueColumns(base.ShapeColumns(o.includeTransient)))
		if err != nil {
			return nil, err
		}
		c.table = empty
		return c, nil
	}

	c.checkColumns(table)
	c.table = table
	return c, nil
}

// MustNew is like New but panics on error
func MustNew(base *schema.Schema, opts ...Option) *Collection {
	c, err := New(base, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Base returns the schema of the records the collection yields
func (c *Collection) Base() *schema.Schema {
	return c.base
}

// Name returns the collection kind
func (c *Collection) Name() string {
	return c.name
}

// Table returns the wrapped table
func (c *Collection) Table() *frame.Table {
	return c.table
}

// Len returns the number of rows
func (c *Collection) Len() int {
	return c.table.Len()
}

// IsNull reports false: a collection is never a missing value, even when empty
func (c *Collection) IsNull() bool {
	return false
}

// Attribute returns a carried-over attribute
func (c *Collection) Attribute(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}

// SetAttribute attaches a value carried over to collections derived from c
func (c *Collection) SetAttribute(key string, value any) {
	if c.attrs == nil {
		c.attrs = make(map[string]any)
	}
	c.attrs[key] = value
}

// ExtraArguments returns a copy of the per-row constant values
func (c *Collection) ExtraArguments() map[string]any {
	out := make(map[string]any, len(c.extra))
	for k, v := range c.extra {
		out[k] = v
	}
	return out
}

// All yields one record per row in table order. Each call starts a new pass
// over the table. A row that fails coercion yields a nil record and the error;
// iteration continues if the caller keeps ranging.
func (c *Collection) All() iter.Seq2[*entity.Record, error] {
	return func(yield func(*entity.Record, error) bool) {
		for i, row := range c.table.Rows() {
			rec, err := c.record(row)
			if err != nil {
				err = fmt.Errorf("row %d: %w", i, err)
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Records builds every record, stopping at the first coercion failure
func (c *Collection) Records() ([]*entity.Record, error) {
	out := make([]*entity.Record, 0, c.table.Len())
	for rec, err := range c.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// At builds the record for row i
func (c *Collection) At(i int) (*entity.Record, error) {
	row, err := c.table.Row(i)
	if err != nil {
		return nil, err
	}
	return c.record(row)
}

func (c *Collection) record(row frame.Row) (*entity.Record, error) {
	values := row.Map()
	for k, v := range c.extra {
		values[k] = v
	}
	return entity.NewWithEngine(c.base, values, c.engine)
}

// MissingColumns returns the required schema columns the table lacks
func (c *Collection) MissingColumns() []string {
	return missingColumns(c.base, c.table)
}

// Column returns the values of one column
func (c *Collection) Column(name string) ([]any, error) {
	return c.table.Column(name)
}

// String renders the wrapped table
func (c *Collection) String() string {
	return c.table.String()
}

// wrap returns a collection of the same kind over t, carrying over every
// setting except the table
func (c *Collection) wrap(t *frame.Table) *Collection {
	c.checkColumns(t)

	attrs := make(map[string]any, len(c.attrs))
	for k, v := range c.attrs {
		attrs[k] = v
	}
	return &Collection{
		table:  t,
		base:   c.base,
		name:   c.name,
		engine: c.engine,
		logger: c.logger,
		extra:  c.extra,
		attrs:  attrs,
	}
}

// checkColumns logs a warning when t lacks required schema columns
func (c *Collection) checkColumns(t *frame.Table) {
	missing := missingColumns(c.base, t)
	if len(missing) == 0 {
		return
	}

	fields := []zap.Field{
		zap.String("schema", c.base.Name()),
		zap.Strings("missing_columns", missing),
	}
	if site, ok := callSite(); ok {
		fields = append(fields, zap.String("caller", site))
	}
	c.logger.Warn("table does not contain all columns defined in schema", fields...)
}

func missingColumns(base *schema.Schema, t *frame.Table) []string {
	var missing []string
	for _, column := range uniqueColumns(base.RequiredColumns()) {
		if !t.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	return missing
}

// uniqueColumns drops repeated names, keeping the first occurrence. Schemas
// with redeclared fields list a column more than once.
func uniqueColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
