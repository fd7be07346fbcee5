package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/leapstack-labs/leapetl/internal/testutil"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg core.AdapterConfig) *Adapter {
	t.Helper()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func perCapita() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Alabama", "Alaska"}, series.String, "State"),
		series.New([]string{"40000", "NaN"}, series.Int, "2013"),
		series.New([]string{"40100.5", "70000"}, series.Float, "2014"),
	)
}

func dump(t *testing.T, adp *Adapter, query string) [][]any {
	t.Helper()
	rows, err := adp.Query(context.Background(), query)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	require.NoError(t, err)

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		out = append(out, vals)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestAdapter_Connect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "out.db")
	connect(t, core.AdapterConfig{Path: path})

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file and its directory are created")
}

func TestAdapter_Connect_BadParams(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), core.AdapterConfig{Params: map[string]any{"bogus": 1}})
	assert.ErrorContains(t, err, "invalid sqlite params")
	assert.False(t, adp.IsConnected())
}

func TestAdapter_ReplaceTable(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{Path: ":memory:", BatchSize: 1})

	n, err := adp.ReplaceTable(ctx, "GDP_Per_Capita_data", perCapita())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := dump(t, adp, `SELECT * FROM "GDP_Per_Capita_data" ORDER BY "State"`)
	require.Len(t, first, 2)
	assert.Equal(t, "Alabama", first[0][0])
	assert.Equal(t, int64(40000), first[0][1])
	assert.Nil(t, first[1][1], "missing cell is stored as NULL")
	assert.InDelta(t, 40100.5, first[0][2], 1e-9)

	// Replacing with identical input leaves identical contents.
	_, err = adp.ReplaceTable(ctx, "GDP_Per_Capita_data", perCapita())
	require.NoError(t, err)
	assert.Equal(t, first, dump(t, adp, `SELECT * FROM "GDP_Per_Capita_data" ORDER BY "State"`))

	// Replacing with a different shape drops the old schema.
	other := dataframe.New(series.New([]string{"x"}, series.String, "Unit"))
	_, err = adp.ReplaceTable(ctx, "GDP_Per_Capita_data", other)
	require.NoError(t, err)
	meta, err := adp.GetTableMetadata(ctx, "GDP_Per_Capita_data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit"}, meta.ColumnNames())
}

func TestAdapter_Metadata(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{})

	_, err := adp.ReplaceTable(ctx, "GDP_Per_Capita_data", perCapita())
	require.NoError(t, err)
	_, err = adp.ReplaceTable(ctx, "Gun_violence_data", dataframe.New(
		series.New([]string{"Ohio"}, series.String, "City/County")))
	require.NoError(t, err)

	tables, err := adp.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GDP_Per_Capita_data", "Gun_violence_data"}, tables)

	meta, err := adp.GetTableMetadata(ctx, "GDP_Per_Capita_data")
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, []string{"State", "2013", "2014"}, meta.ColumnNames())
	assert.Equal(t, []string{"TEXT", "INTEGER", "REAL"},
		[]string{meta.Columns[0].Type, meta.Columns[1].Type, meta.Columns[2].Type})
	assert.Equal(t, 1, meta.Columns[0].Position)
	assert.Equal(t, int64(2), meta.RowCount)

	_, err = adp.GetTableMetadata(ctx, "nope")
	assert.EqualError(t, err, "table nope not found")
}

func TestAdapter_Pragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.db")
	adp := connect(t, core.AdapterConfig{
		Path:   path,
		Params: map[string]any{"pragmas": map[string]any{"journal_mode": "wal"}},
	})

	var mode string
	require.NoError(t, adp.DB.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestParams_DSN(t *testing.T) {
	p, err := ParseParams(map[string]any{
		"pragmas":         map[string]any{"synchronous": "off", "foreign_keys": "on"},
		"busy_timeout_ms": "250",
	})
	require.NoError(t, err)
	assert.Equal(t, 250, p.BusyTimeoutMS)
	assert.Equal(t,
		"a.db?_pragma=busy_timeout%28250%29&_pragma=foreign_keys%28on%29&_pragma=synchronous%28off%29",
		p.DSN("a.db"))

	empty, err := ParseParams(nil)
	require.NoError(t, err)
	assert.Equal(t, "a.db?_pragma=busy_timeout%285000%29", empty.DSN("a.db"))
}
