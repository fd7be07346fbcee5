package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nested", "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.ListTables(ctx)
	assert.Error(t, err)
	_, err = adp.GetTableMetadata(ctx, "t")
	assert.Error(t, err)
	_, err = adp.ReplaceTable(ctx, "t", dataframe.New(series.New([]string{"a"}, series.String, "x")))
	assert.Error(t, err)
}

func TestAdapter_ReplaceTable(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"settings": map[string]any{"threads": "1"}},
	}))
	defer func() { _ = adp.Close() }()

	df := dataframe.New(
		series.New([]string{"2019", "2020"}, series.String, "Unit"),
		series.New([]string{"1.5", "NaN"}, series.Float, "1997"),
		series.New([]string{"NaN", "NaN"}, series.String, "GeoName"),
	)

	for range 2 {
		n, err := adp.ReplaceTable(ctx, "US_State_GDP_data", df)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}

	tables, err := adp.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"US_State_GDP_data"}, tables)

	meta, err := adp.GetTableMetadata(ctx, "US_State_GDP_data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit", "1997", "GeoName"}, meta.ColumnNames())
	assert.Equal(t, "DOUBLE", meta.Columns[1].Type)
	assert.Equal(t, int64(2), meta.RowCount)

	var nulls int
	require.NoError(t, adp.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM "US_State_GDP_data" WHERE "GeoName" IS NULL`).Scan(&nulls))
	assert.Equal(t, 2, nulls)
}
