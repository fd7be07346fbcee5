package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/core"
)

var dialectConfig = &core.DialectConfig{
	Name:          "postgres",
	Identifiers:   core.IdentifierConfig{Quote: `"`, Escape: `""`},
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	MaxParams:     65535,
	ColumnTypes: map[string]string{
		"int":    "BIGINT",
		"float":  "DOUBLE PRECISION",
		"string": "TEXT",
		"bool":   "BOOLEAN",
	},
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the PostgreSQL dialect configuration.
func (a *Adapter) Dialect() *core.DialectConfig {
	return dialectConfig
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(sslmode))

	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}

	return dsn
}

// dsnValue quotes a keyword/value setting when it is empty or holds
// whitespace, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r\v\f'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// useCopy reports whether rows are loaded with COPY rather than INSERT.
// Disabled with options.copy: "false".
func (a *Adapter) useCopy() bool {
	v, ok := a.Cfg.Options["copy"]
	if !ok {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

// ReplaceTable drops and recreates table from df. Rows are streamed with
// COPY FROM STDIN inside the same transaction as the DDL.
func (a *Adapter) ReplaceTable(ctx context.Context, table string, df dataframe.DataFrame) (int, error) {
	if !a.useCopy() {
		return a.ReplaceTableCommon(ctx, dialectConfig, table, df)
	}
	if a.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	if df.Ncol() == 0 {
		return 0, fmt.Errorf("replace table %s: frame has no columns", table)
	}

	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	name := dialectConfig.QualifiedName(a.Cfg.Schema, table)
	var written int64
	err = conn.Raw(func(driverConn any) error {
		pgxConn := driverConn.(*stdlib.Conn).Conn()
		return pgx.BeginFunc(ctx, pgxConn, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
			if _, err := tx.Exec(ctx, adapter.CreateTableSQL(dialectConfig, name, df)); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table, err)
			}
			n, err := tx.CopyFrom(ctx, copyIdentifier(a.Cfg.Schema, table), df.Names(), copySource(df))
			if err != nil {
				return fmt.Errorf("failed to copy into %s: %w", table, err)
			}
			written = n
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	a.Logger.Debug("copied rows", slog.String("table", name), slog.Int64("rows", written))
	return int(written), nil
}

func copyIdentifier(schema, table string) pgx.Identifier {
	if schema == "" {
		return pgx.Identifier{table}
	}
	return pgx.Identifier{schema, table}
}

// copySource yields df row by row for COPY.
func copySource(df dataframe.DataFrame) pgx.CopyFromSource {
	cols := make([]series.Series, 0, df.Ncol())
	for _, n := range df.Names() {
		cols = append(cols, df.Col(n))
	}
	return pgx.CopyFromSlice(df.Nrow(), func(i int) ([]any, error) {
		row := make([]any, len(cols))
		for c, s := range cols {
			row[c] = adapter.CellValue(s, i)
		}
		return row, nil
	})
}

// ListTables returns the base tables of the configured schema, sorted.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	return a.ListTablesCommon(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, a.Schema(dialectConfig))
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, dialectConfig)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
