package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conduit-lang/tabular/internal/frame"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query runs query and loads the result set into a table. Column order
// follows the result set. Byte slices returned by drivers are converted to
// strings.
func Query(ctx context.Context, q Querier, query string, args ...any) (*frame.Table, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*frame.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table, err := frame.Empty(columns)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		table.Append(record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
