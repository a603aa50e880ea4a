package source

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "score"}).
		AddRow(int64(1), []byte("ada"), 9.5).
		AddRow(int64(2), nil, nil)
	mock.ExpectQuery("SELECT id, name, score FROM players WHERE team = \\$1").
		WithArgs("red").
		WillReturnRows(rows)

	table, err := Query(context.Background(), db, "SELECT id, name, score FROM players WHERE team = $1", "red")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, table.Columns())
	require.Equal(t, 2, table.Len())

	first, err := table.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "ada", 9.5}, first.Values(), "byte slices become strings")

	second, err := table.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), nil, nil}, second.Values())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

		_, err := Query(context.Background(), db, "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
	})

	t.Run("row failure", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).
			AddRow(1).
			RowError(0, errors.New("bad row"))
		mock.ExpectQuery("SELECT").WillReturnRows(rows)

		_, err := Query(context.Background(), db, "SELECT id FROM t")
		assert.EqualError(t, err, "bad row")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE players (id INTEGER, name TEXT, joined TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO players VALUES (1, 'ada', '2024-01-02'), (2, NULL, NULL)`)
	require.NoError(t, err)

	table, err := Query(context.Background(), db, "SELECT id, name, joined FROM players ORDER BY id")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	first, err := table.Row(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Get("id"))
	assert.Equal(t, "ada", first.Get("name"))

	second, err := table.Row(1)
	require.NoError(t, err)
	assert.Nil(t, second.Get("name"))
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sqlite", "sqlite3"},
		{"SQLite3", "sqlite3"},
		{"postgresql", "postgres"},
		{"pq", "postgres"},
		{"pgx", "pgx"},
		{" mysql ", "mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DriverName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DriverName("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported:")

	registered := sql.Drivers()
	for _, name := range []string{"sqlite3", "postgres", "pgx", "mysql"} {
		assert.Contains(t, registered, name)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, "sqlite", "", "SELECT 1")
	assert.Error(t, err)

	table, err := Load(ctx, "sqlite", ":memory:", "SELECT 1 AS one, 'x' AS two")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, table.Columns())

	row, err := table.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "x"}, row.Values())
}
