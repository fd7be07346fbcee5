package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapetl/internal/cli/config"
	"github.com/leapstack-labs/leapetl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject writes local sources and a leapetl.yaml pointing at them.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	testutil.WriteFile(t, filepath.Join(dir, "raw", "gun"), "incidents.csv", testutil.CSV(
		testutil.GunViolenceHeader,
		testutil.GunViolenceRow(1, "Ohio", 0, 1),
		testutil.GunViolenceRow(2, "Texas", 2, 0),
		testutil.GunViolenceRow(3, "Iowa", 1, 3),
	))
	testutil.WriteFile(t, filepath.Join(dir, "raw"), "gdp.csv", testutil.CSV(
		testutil.StateGDPHeader(),
		testutil.StateGDPRow("01000", "Alabama", 5, 1, 100),
		testutil.StateGDPRow("02000", "Alaska", 8, 1, 50),
	))
	testutil.WriteFile(t, filepath.Join(dir, "raw"), "per_capita.csv", testutil.CSV(
		testutil.GDPPerCapitaHeader,
		testutil.GDPPerCapitaRow(1, "Alabama", 40000),
		testutil.GDPPerCapitaRow(2, "Alaska", 70000),
		testutil.GDPPerCapitaRow(4, "Arizona", 43000),
	))

	testutil.WriteFile(t, dir, "leapetl.yaml", `
target:
  type: sqlite
  database: out/etl.db
datasets:
  gun_violence:
    source: raw/gun
  state_gdp:
    source: raw/gdp.csv
  gdp_per_capita:
    source: raw/per_capita.csv
`)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	t.Log(errOut.String())
	return out.String(), err
}

func TestCLI_RunQueryHistory(t *testing.T) {
	dir := setupProject(t)
	t.Chdir(dir)

	out, err := execute(t, "run", "-o", "json")
	require.NoError(t, err)

	var run struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Datasets []struct {
			Dataset     string `json:"dataset"`
			Status      string `json:"status"`
			RowsWritten int    `json:"rows_written"`
		} `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, "completed", run.Status)
	require.Len(t, run.Datasets, 3)
	assert.Equal(t, "gun_violence", run.Datasets[0].Dataset)
	assert.Equal(t, 3, run.Datasets[0].RowsWritten)

	_, err = os.Stat(filepath.Join(dir, "out", "etl.db"))
	require.NoError(t, err, "database path is relative to the config file")
	_, err = os.Stat(filepath.Join(dir, config.DefaultStateFile))
	require.NoError(t, err)

	out, err = execute(t, "query", "tables", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name,columns,rows\nGDP_Per_Capita_data,6,3\nGun_violence_data,13,3\nUS_State_GDP_data,25,2\n", out)

	out, err = execute(t, "query", `SELECT "State", "2013" FROM "GDP_Per_Capita_data" ORDER BY 1`, "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, "State,2013\nAlabama,40000\nAlaska,70000\nArizona,43000\n", out)

	out, err = execute(t, "query", "schema", "Gun_violence_data", "-f", "json")
	require.NoError(t, err)
	var schema struct {
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	require.Len(t, schema.Columns, 13)
	assert.Equal(t, "Date", schema.Columns[0].Name)

	out, err = execute(t, "history", "-o", "json")
	require.NoError(t, err)
	var runs []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	out, err = execute(t, "history", "--run", "latest", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Run "+run.ID)
	assert.Contains(t, out, "- **Status:** completed")
}

func TestCLI_RunFailure(t *testing.T) {
	dir := setupProject(t)
	testutil.WriteFile(t, filepath.Join(dir, "raw"), "per_capita.csv", "Area,2013\nAlabama,1\n")
	t.Chdir(dir)

	out, err := execute(t, "run", "-o", "markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset gdp_per_capita failed during transform")
	assert.Contains(t, out, "✗ gdp_per_capita")
	assert.Contains(t, out, "✓ gun_violence")

	_, err = execute(t, "run", "--dataset", "weather")
	assert.ErrorContains(t, err, `unknown dataset "weather"`)
}

func TestCLI_Datasets(t *testing.T) {
	dir := setupProject(t)
	t.Chdir(dir)

	out, err := execute(t, "datasets", "-o", "json")
	require.NoError(t, err)

	var datasets []struct {
		Name    string   `json:"name"`
		Table   string   `json:"table"`
		Source  string   `json:"source"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &datasets))
	require.Len(t, datasets, 3)
	assert.Equal(t, "Gun_violence_data", datasets[0].Table)
	assert.Equal(t, filepath.Join(dir, "raw", "gdp.csv"), datasets[1].Source)
	assert.Len(t, datasets[2].Columns, 6)
}

func TestCLI_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "leapetl.yaml", "target:\n  type: oracle\n")
	t.Chdir(dir)

	_, err := execute(t, "datasets")
	assert.ErrorContains(t, err, "unknown adapter type")

	// version and init do not need a valid config.
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "leapetl v"+Version)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "json", false).Debug("hidden")
	NewLogger(&buf, "json", false).Info("shown", "k", 1)
	assert.JSONEq(t, `{"time":"", "level":"INFO","msg":"shown","k":1}`,
		replaceTime(t, buf.String()))

	buf.Reset()
	NewLogger(&buf, "text", true).Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG msg=visible")
}

func replaceTime(t *testing.T, line string) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	m["time"] = ""
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}
