package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/leapstack-labs/leapetl/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and table replacement implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.log().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Schema returns the configured schema, or the dialect default.
func (b *BaseSQLAdapter) Schema(d *core.DialectConfig) string {
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema
	}
	return d.DefaultSchema
}

func (b *BaseSQLAdapter) log() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// ReplaceTableCommon replaces table with the contents of df inside one
// transaction: DROP TABLE IF EXISTS, CREATE TABLE with a column per frame
// column, then multi-row INSERTs. Missing cells are written as NULL.
//
// Drivers that auto-commit DDL (MySQL) only get the INSERTs rolled back on
// failure.
func (b *BaseSQLAdapter) ReplaceTableCommon(ctx context.Context, d *core.DialectConfig, table string, df dataframe.DataFrame) (int, error) {
	if b.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	if df.Ncol() == 0 {
		return 0, fmt.Errorf("replace table %s: frame has no columns", table)
	}

	name := d.QualifiedName(b.Cfg.Schema, table)
	batch := b.batchRows(d, df.Ncol())
	b.log().Debug("replacing table",
		slog.String("table", name),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()),
		slog.Int("batch_rows", batch))

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, CreateTableSQL(d, name, df)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	written, err := insertRows(ctx, tx, d, name, df, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit table %s: %w", table, err)
	}
	committed = true
	return written, nil
}

// batchRows returns the rows per INSERT, capped by the dialect's parameter limit.
func (b *BaseSQLAdapter) batchRows(d *core.DialectConfig, ncol int) int {
	n := b.Cfg.RowsPerBatch()
	if d.MaxParams > 0 && n*ncol > d.MaxParams {
		n = d.MaxParams / ncol
	}
	return max(n, 1)
}

// CreateTableSQL returns the CREATE TABLE statement for df's columns.
// name must already be quoted.
func CreateTableSQL(d *core.DialectConfig, name string, df dataframe.DataFrame) string {
	cols := make([]string, 0, df.Ncol())
	for _, c := range df.Names() {
		cols = append(cols, d.QuoteIdentifier(c)+" "+d.ColumnType(string(df.Col(c).Type())))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))
}

// InsertSQL returns a multi-row INSERT for rows rows of the given columns.
// name must already be quoted.
func InsertSQL(d *core.DialectConfig, name string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", name, strings.Join(quoted, ", "))
	n := 1
	for r := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.FormatPlaceholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func insertRows(ctx context.Context, tx *sql.Tx, d *core.DialectConfig, name string, df dataframe.DataFrame, batch int) (int, error) {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, n := range names {
		cols[i] = df.Col(n)
	}

	nrow := df.Nrow()
	fullSQL := ""
	written := 0
	for start := 0; start < nrow; start += batch {
		end := min(start+batch, nrow)

		stmt := fullSQL
		if end-start != batch || stmt == "" {
			stmt = InsertSQL(d, name, names, end-start)
			if end-start == batch {
				fullSQL = stmt
			}
		}

		args := make([]any, 0, (end-start)*len(cols))
		for r := start; r < end; r++ {
			for _, s := range cols {
				args = append(args, CellValue(s, r))
			}
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return written, err
		}
		written += end - start
	}
	return written, nil
}

// CellValue converts row i of s to a driver value. Missing cells are nil.
func CellValue(s series.Series, i int) any {
	e := s.Elem(i)
	if e.IsNA() {
		return nil
	}
	switch s.Type() {
	case series.Int:
		if v, err := e.Int(); err == nil {
			return int64(v)
		}
	case series.Float:
		return e.Float()
	case series.Bool:
		if v, err := e.Bool(); err == nil {
			return v
		}
	}
	return e.String()
}

// GetTableMetadataCommon provides a shared implementation of GetTableMetadata.
// Uses information_schema.columns with dialect-appropriate placeholders.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, table string, d *core.DialectConfig) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	schema := b.Schema(d)

	//nolint:gosec // Placeholders are safe - they come from the dialect
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     table,
		Columns:  columns,
		RowCount: b.CountRows(ctx, d.QualifiedName(schema, table)),
	}, nil
}

// CountRows returns the row count of an already quoted table name, or 0 if
// the count fails.
func (b *BaseSQLAdapter) CountRows(ctx context.Context, name string) int64 {
	var n int64
	if err := b.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+name).Scan(&n); err != nil {
		return 0
	}
	return n
}

// ListTablesCommon runs query, which must select a single name column, and
// returns the names.
func (b *BaseSQLAdapter) ListTablesCommon(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}
