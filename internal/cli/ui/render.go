package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/tabular/internal/entity"
	"github.com/conduit-lang/tabular/internal/schema"
)

// RenderSchema writes a schema summary followed by its resolved fields
func RenderSchema(w io.Writer, s *schema.Schema, noColor bool) {
	Header(w, s.Name(), noColor)

	kv := NewKeyValueTable(w, noColor)
	if ancestors := s.Ancestors(); len(ancestors) > 0 {
		lineage := make([]string, len(ancestors))
		for i, a := range ancestors {
			lineage[i] = a.Name()
		}
		kv.AddRow("Extends", strings.Join(lineage, " → "))
	}
	kv.AddRow("Fields", fmt.Sprintf("%d (%d declared here)", s.Len(), len(s.OwnFields())))
	kv.AddRow("Required", strings.Join(s.RequiredColumns(), ", "))
	kv.Render()
	fmt.Fprintln(w)

	table := NewTable(w, []string{"#", "column", "attribute", "type", "default", "flags", "from"}, &TableOptions{NoColor: noColor})
	for i, f := range s.Fields() {
		from := ""
		if owner := f.Owner(); owner != nil {
			from = owner.Name()
		}
		table.AddRow(fmt.Sprint(i), f.Column, f.Name, f.Type.String(), defaultText(f), strings.Join(fieldFlags(f), ","), from)
	}
	table.Render()

	if warnings := s.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, Warning(fmt.Sprintf("Schema %s resolved with warnings", s.Name()), warnings, noColor))
	}
}

// RenderSchemaList writes one line per schema
func RenderSchemaList(w io.Writer, schemas []*schema.Schema, noColor bool) {
	table := NewTable(w, []string{"schema", "extends", "fields", "columns"}, &TableOptions{NoColor: noColor})
	for _, s := range schemas {
		parent := ""
		if s.Parent() != nil {
			parent = s.Parent().Name()
		}
		table.AddRow(s.Name(), parent, fmt.Sprint(s.Len()), strings.Join(s.Columns(), ", "))
	}
	table.Render()
}

// RenderRecords writes records as a table with the given columns
func RenderRecords(w io.Writer, columns []string, records []*entity.Record, noColor bool) {
	table := NewTable(w, columns, &TableOptions{NoColor: noColor})
	for _, rec := range records {
		table.AddValues(rec.ToTuple(columns...)...)
	}
	table.Render()
}

func defaultText(f *schema.Field) string {
	switch {
	case f.DefaultFunc != nil:
		return "<func>"
	case f.Default != nil:
		return FormatValue(f.Default)
	}
	return ""
}

func fieldFlags(f *schema.Field) []string {
	var flags []string
	if f.Transient {
		flags = append(flags, "transient")
	}
	if f.NoSelect {
		flags = append(flags, "no_select")
	}
	if f.Parser != nil {
		flags = append(flags, "parser")
	}
	return flags
}

// OutputColumns returns the distinct columns of s in field order, leaving out
// transient columns unless includeTransient is set
func OutputColumns(s *schema.Schema, includeTransient bool) []string {
	return uniqueColumns(s.ShapeColumns(includeTransient))
}

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
