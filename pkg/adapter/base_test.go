package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDialect = &core.DialectConfig{
	Name:          "test",
	Identifiers:   core.IdentifierConfig{Quote: `"`, Escape: `""`},
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	ColumnTypes: map[string]string{
		"int":    "INTEGER",
		"float":  "REAL",
		"string": "TEXT",
		"bool":   "INTEGER",
	},
}

func testFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Ohio", "Texas", "Iowa"}, series.String, "State"),
		series.New([]string{"1", "NaN", "3"}, series.Int, "2013"),
	)
}

func newMock(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db}, mock
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close())

	err := base.Exec(ctx, "SELECT 1")
	assert.EqualError(t, err, "database connection not established")

	rows, err := base.Query(ctx, "SELECT 1")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "database connection not established")

	_, err = base.ReplaceTableCommon(ctx, testDialect, "t", testFrame())
	assert.EqualError(t, err, "database connection not established")

	_, err = base.GetTableMetadataCommon(ctx, "t", testDialect)
	assert.Error(t, err)

	_, err = base.ListTablesCommon(ctx, "SELECT name FROM t")
	assert.Error(t, err)
}

func TestBaseSQLAdapter_ExecQuery(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(ctx context.Context, b *BaseSQLAdapter) error
		errMsg    string
	}{
		{
			name: "exec success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users (id INT)").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			run: func(ctx context.Context, b *BaseSQLAdapter) error {
				return b.Exec(ctx, "CREATE TABLE users (id INT)")
			},
		},
		{
			name: "exec with error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			run: func(ctx context.Context, b *BaseSQLAdapter) error {
				return b.Exec(ctx, "INVALID SQL")
			},
			errMsg: "failed to execute SQL",
		},
		{
			name: "query success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			},
			run: func(ctx context.Context, b *BaseSQLAdapter) error {
				rows, err := b.Query(ctx, "SELECT id FROM users")
				if err != nil {
					return err
				}
				return rows.Close()
			},
		},
		{
			name: "query with error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			run: func(ctx context.Context, b *BaseSQLAdapter) error {
				_, err := b.Query(ctx, "INVALID")
				return err
			},
			errMsg: "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMock(t)
			tt.setupMock(mock)

			err := tt.run(context.Background(), base)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_ReplaceTable(t *testing.T) {
	base, mock := newMock(t)
	base.Cfg.BatchSize = 2

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "GDP"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "GDP" ("State" TEXT, "2013" INTEGER)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "GDP" ("State", "2013") VALUES (?, ?), (?, ?)`).
		WithArgs("Ohio", int64(1), "Texas", nil).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "GDP" ("State", "2013") VALUES (?, ?)`).
		WithArgs("Iowa", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := base.ReplaceTableCommon(context.Background(), testDialect, "GDP", testFrame())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ReplaceTable_RollsBack(t *testing.T) {
	base, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "GDP"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "GDP" ("State" TEXT, "2013" INTEGER)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "GDP" ("State", "2013") VALUES (?, ?), (?, ?), (?, ?)`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := base.ReplaceTableCommon(context.Background(), testDialect, "GDP", testFrame())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to insert into GDP")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_ReplaceTable_EmptyFrame(t *testing.T) {
	base, mock := newMock(t)
	empty := dataframe.New(series.New([]string{}, series.String, "State"))

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "main"."t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "main"."t" ("State" TEXT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	base.Cfg.Schema = "main"
	n, err := base.ReplaceTableCommon(context.Background(), testDialect, "t", empty)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRows(t *testing.T) {
	limited := *testDialect
	limited.MaxParams = 10

	tests := []struct {
		name      string
		d         *core.DialectConfig
		batchSize int
		ncol      int
		want      int
	}{
		{name: "default", d: testDialect, ncol: 13, want: core.DefaultBatchSize},
		{name: "configured", d: testDialect, batchSize: 7, ncol: 13, want: 7},
		{name: "capped by params", d: &limited, batchSize: 100, ncol: 3, want: 3},
		{name: "at least one row", d: &limited, batchSize: 100, ncol: 25, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BaseSQLAdapter{Cfg: core.AdapterConfig{BatchSize: tt.batchSize}}
			assert.Equal(t, tt.want, b.batchRows(tt.d, tt.ncol))
		})
	}
}

func TestInsertSQL_Dollar(t *testing.T) {
	pg := *testDialect
	pg.Placeholder = core.PlaceholderDollar

	got := InsertSQL(&pg, `"t"`, []string{"a", "b"}, 2)
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES ($1, $2), ($3, $4)`, got)
}

func TestCellValue(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"1.5", "NaN"}, series.Float, "f"),
		series.New([]string{"true", "false"}, series.Bool, "b"),
		series.New([]string{"x", "NaN"}, series.String, "s"),
	)

	assert.InDelta(t, 1.5, CellValue(df.Col("f"), 0), 1e-12)
	assert.Nil(t, CellValue(df.Col("f"), 1))
	assert.Equal(t, true, CellValue(df.Col("b"), 0))
	assert.Equal(t, false, CellValue(df.Col("b"), 1))
	assert.Equal(t, "x", CellValue(df.Col("s"), 0))
	assert.Nil(t, CellValue(df.Col("s"), 1))
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	base := &BaseSQLAdapter{DB: db}

	mock.ExpectQuery("SELECT.*FROM information_schema.columns").
		WithArgs("main", "GDP").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("State", "TEXT", "YES", 1).
			AddRow("2013", "INTEGER", "NO", 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "main"."GDP"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	meta, err := base.GetTableMetadataCommon(context.Background(), "GDP", testDialect)
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, []string{"State", "2013"}, meta.ColumnNames())
	assert.True(t, meta.Columns[0].Nullable)
	assert.False(t, meta.Columns[1].Nullable)
	assert.Equal(t, int64(3), meta.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_GetTableMetadataCommon_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	base := &BaseSQLAdapter{DB: db, Cfg: core.AdapterConfig{Schema: "etl"}}

	mock.ExpectQuery("SELECT.*FROM information_schema.columns").
		WithArgs("etl", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err = base.GetTableMetadataCommon(context.Background(), "missing", testDialect)
	assert.EqualError(t, err, "table missing not found")
}

func TestBaseSQLAdapter_ListTablesCommon(t *testing.T) {
	base, mock := newMock(t)
	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("GDP_Per_Capita_data").AddRow("Gun_violence_data"))

	names, err := base.ListTablesCommon(context.Background(), "SELECT name FROM sqlite_master")
	require.NoError(t, err)
	assert.Equal(t, []string{"GDP_Per_Capita_data", "Gun_violence_data"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
