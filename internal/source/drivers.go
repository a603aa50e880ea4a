package source

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/tabular/internal/frame"
)

// aliases maps accepted driver names to registered database/sql drivers
var aliases = map[string]string{
	"sqlite":     "sqlite3",
	"sqlite3":    "sqlite3",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pq":         "postgres",
	"pgx":        "pgx",
	"mysql":      "mysql",
}

// Drivers returns the accepted driver names
func Drivers() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DriverName resolves an accepted driver name to its database/sql name
func DriverName(name string) (string, error) {
	driver, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unsupported driver %q (supported: %s)", name, strings.Join(Drivers(), ", "))
	}
	return driver, nil
}

// Open opens and pings a database
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	name, err := DriverName(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required for driver %s", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Load opens a database, runs query and closes the database
func Load(ctx context.Context, driver, dsn, query string, args ...any) (*frame.Table, error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return Query(ctx, db, query, args...)
}
