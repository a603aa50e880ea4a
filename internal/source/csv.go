// Package source loads tables from CSV input and SQL queries
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conduit-lang/tabular/internal/frame"
)

// ErrEmptyInput is returned when a CSV input has no records
var ErrEmptyInput = errors.New("empty csv input")

// CSVOptions controls how CSV input is parsed
type CSVOptions struct {
	// Delimiter separates fields. Defaults to a comma.
	Delimiter rune

	// NoHeader treats the first record as data. Columns are then named
	// col_1, col_2 and so on.
	NoHeader bool

	// KeepEmpty keeps empty cells as "" instead of nil
	KeepEmpty bool
}

// ReadCSV reads every record of r into a table. Cells are kept as text;
// conversion to declared types happens when records are built.
func ReadCSV(r io.Reader, opts CSVOptions) (*frame.Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	var headers []string
	rows := records
	if opts.NoHeader {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i+1)
		}
	} else {
		headers = make([]string, len(records[0]))
		for i, h := range records[0] {
			headers[i] = strings.TrimSpace(h)
		}
		rows = records[1:]
	}

	table, err := frame.Empty(headers)
	if err != nil {
		return nil, err
	}
	for _, record := range rows {
		values := make(map[string]any, len(headers))
		for j, h := range headers {
			if j >= len(record) {
				continue
			}
			if record[j] == "" && !opts.KeepEmpty {
				continue
			}
			values[h] = record[j]
		}
		table.Append(values)
	}
	return table, nil
}

// ReadCSVFile opens path and reads it with ReadCSV
func ReadCSVFile(path string, opts CSVOptions) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
