package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/tabular/internal/cli/ui"
	"github.com/conduit-lang/tabular/internal/entity"
)

// orderedRecord encodes a record as an object whose keys follow the
// requested column order
type orderedRecord struct {
	columns []string
	values  []any
}

func newOrderedRecord(columns []string, rec *entity.Record) orderedRecord {
	return orderedRecord{columns: columns, values: rec.ToTuple(columns...)}
}

// MarshalJSON implements json.Marshaler
func (r orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, column := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(jsonValue(r.values[i]))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue maps NaN and infinities, which JSON cannot represent, to null
func jsonValue(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

// MarshalYAML implements yaml.Marshaler
func (r orderedRecord) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, column := range r.columns {
		value := &yaml.Node{}
		if err := value.Encode(r.values[i]); err != nil {
			return nil, fmt.Errorf("column %s: %w", column, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: column},
			value,
		)
	}
	return node, nil
}

func writeRecords(w io.Writer, format string, columns []string, records []*entity.Record, noColor bool) error {
	ordered := make([]orderedRecord, len(records))
	for i, rec := range records {
		ordered[i] = newOrderedRecord(columns, rec)
	}

	switch strings.ToLower(format) {
	case "", "table":
		ui.RenderRecords(w, columns, records, noColor)
		fmt.Fprintf(w, "\n%d records\n", len(records))
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ordered)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ordered); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
