package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "etl",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=etl sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Database: "warehouse",
				Username: "loader",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=warehouse sslmode=require user=loader",
		},
		{
			name:     "defaults",
			config:   adapter.Config{Database: "etl"},
			expected: "host=localhost port=5432 dbname=etl sslmode=disable",
		},
		{
			name: "quoted values",
			config: adapter.Config{
				Database: "gdp data",
				Username: "loader",
				Password: `p a's\w`,
			},
			expected: `host=localhost port=5432 dbname='gdp data' sslmode=disable user=loader password='p a\'s\\w'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestBuildPostgresDSN_Parses(t *testing.T) {
	cfg, err := pgconn.ParseConfig(buildPostgresDSN(adapter.Config{
		Host:     "db.internal",
		Port:     6432,
		Database: "gdp data",
		Username: "etl user",
		Password: `it's "secret" \ key`,
	}))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, uint16(6432), cfg.Port)
	assert.Equal(t, "gdp data", cfg.Database)
	assert.Equal(t, "etl user", cfg.User)
	assert.Equal(t, `it's "secret" \ key`, cfg.Password)
}

func TestUseCopy(t *testing.T) {
	tests := []struct {
		options map[string]string
		want    bool
	}{
		{nil, true},
		{map[string]string{"copy": "false"}, false},
		{map[string]string{"copy": "0"}, false},
		{map[string]string{"copy": "true"}, true},
		{map[string]string{"copy": "bogus"}, true},
	}

	for _, tt := range tests {
		a := New(nil)
		a.Cfg.Options = tt.options
		assert.Equal(t, tt.want, a.useCopy(), "options %v", tt.options)
	}
}

func TestCopySource(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Ohio", "Iowa"}, series.String, "State"),
		series.New([]string{"7", "NaN"}, series.Int, "2013"),
	)

	src := copySource(df)
	var rows [][]any
	for src.Next() {
		vals, err := src.Values()
		require.NoError(t, err)
		rows = append(rows, vals)
	}
	require.NoError(t, src.Err())
	assert.Equal(t, [][]any{{"Ohio", int64(7)}, {"Iowa", nil}}, rows)

	assert.Equal(t, pgx.Identifier{"GDP"}, copyIdentifier("", "GDP"))
	assert.Equal(t, pgx.Identifier{"etl", "GDP"}, copyIdentifier("etl", "GDP"))
}

// With COPY disabled the adapter falls back to batched INSERTs with $n
// placeholders.
func TestReplaceTable_InsertFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := New(nil)
	a.DB = db
	a.Cfg.Options = map[string]string{"copy": "false"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "GDP"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "GDP" ("State" TEXT, "2013" DOUBLE PRECISION)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "GDP" ("State", "2013") VALUES ($1, $2)`)).
		WithArgs("Ohio", 1.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	df := dataframe.New(
		series.New([]string{"Ohio"}, series.String, "State"),
		series.New([]string{"1.5"}, series.Float, "2013"),
	)
	n, err := a.ReplaceTable(context.Background(), "GDP", df)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
