package commands

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
)

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	// Collect all rows
	var results [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		for i, val := range values {
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return renderRecords(w, cols, results, format)
}

func renderRecords(w io.Writer, cols []string, results [][]any, format string) error {
	switch format {
	case "json":
		return renderJSON(w, cols, results)
	case "csv":
		return renderCSV(w, cols, results)
	case "md", "markdown":
		return renderMarkdown(w, cols, results)
	default:
		return renderTable(w, cols, results)
	}
}

func newTable(w io.Writer, cols []string, results [][]any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, result := range results {
		row := make(table.Row, len(cols))
		for i := range cols {
			row[i] = formatValue(result[i])
		}
		t.AppendRow(row)
	}
	return t
}

func renderTable(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	newTable(w, cols, results).Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

func renderMarkdown(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	newTable(w, cols, results).RenderMarkdown()
	return nil
}

func renderJSON(w io.Writer, cols []string, results [][]any) error {
	objects := make([]map[string]any, 0, len(results))
	for _, result := range results {
		obj := make(map[string]any, len(cols))
		for i, col := range cols {
			obj[col] = result[i]
		}
		objects = append(objects, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func renderCSV(w io.Writer, cols []string, results [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, result := range results {
		record := make([]string, len(cols))
		for i := range cols {
			if result[i] != nil {
				record[i] = formatValue(result[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// Helper functions for subcommands

func listTables(ctx context.Context, w io.Writer, db adapter.Adapter, format string) error {
	names, err := db.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	results := make([][]any, 0, len(names))
	for _, name := range names {
		meta, err := db.GetTableMetadata(ctx, name)
		if err != nil {
			return err
		}
		results = append(results, []any{name, len(meta.Columns), meta.RowCount})
	}
	return renderRecords(w, []string{"name", "columns", "rows"}, results, format)
}

// columnInfo represents schema column information.
type columnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

type schemaOutput struct {
	Name     string       `json:"name"`
	Schema   string       `json:"schema,omitempty"`
	RowCount int64        `json:"row_count"`
	Columns  []columnInfo `json:"columns"`
}

func showSchema(ctx context.Context, w io.Writer, db adapter.Adapter, tableName, format string) error {
	meta, err := db.GetTableMetadata(ctx, tableName)
	if err != nil {
		return err
	}

	columns := make([]columnInfo, 0, len(meta.Columns))
	for _, c := range meta.Columns {
		columns = append(columns, columnInfo{Name: c.Name, Type: c.Type, Nullable: c.Nullable, Position: c.Position})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schemaOutput{Name: meta.Name, Schema: meta.Schema, RowCount: meta.RowCount, Columns: columns})
	}

	results := make([][]any, 0, len(columns))
	for _, c := range columns {
		nullable := "YES"
		if !c.Nullable {
			nullable = "NO"
		}
		results = append(results, []any{c.Position, c.Name, c.Type, nullable})
	}

	if format == "table" {
		_, _ = fmt.Fprintf(w, "Table: %s (%d rows)\n", meta.Name, meta.RowCount)
	}
	return renderRecords(w, []string{"#", "column", "type", "nullable"}, results, format)
}
