package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/core"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

var dialectConfig = &core.DialectConfig{
	Name:          "duckdb",
	Identifiers:   core.IdentifierConfig{Quote: `"`, Escape: `""`},
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	ColumnTypes: map[string]string{
		"int":    "BIGINT",
		"float":  "DOUBLE",
		"string": "VARCHAR",
		"bool":   "BOOLEAN",
	},
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the DuckDB dialect configuration.
func (a *Adapter) Dialect() *core.DialectConfig {
	return dialectConfig
}

// Connect establishes a connection to DuckDB and applies extensions and
// settings from cfg.Params. Use ":memory:" for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	// Session settings apply per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	for _, stmt := range setupStatements(params) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to configure duckdb (%s): %w", stmt, err)
		}
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// setupStatements returns the INSTALL/LOAD and SET statements for p.
func setupStatements(p *Params) []string {
	var stmts []string
	for _, ext := range p.Extensions {
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}

	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", name, strings.ReplaceAll(p.Settings[name], "'", "''")))
	}
	return stmts
}

// ReplaceTable drops and recreates table from df.
func (a *Adapter) ReplaceTable(ctx context.Context, table string, df dataframe.DataFrame) (int, error) {
	return a.ReplaceTableCommon(ctx, dialectConfig, table, df)
}

// ListTables returns the base tables of the configured schema, sorted.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	return a.ListTablesCommon(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`, a.Schema(dialectConfig))
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, dialectConfig)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
