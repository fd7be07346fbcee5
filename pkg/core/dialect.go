package core

import (
	"fmt"
	"strings"
)

// DialectConfig holds the static SQL dialect settings an adapter needs to
// create and fill tables.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "sqlite", "postgres")
	Name string

	// Identifiers defines quoting rules
	Identifiers IdentifierConfig

	// DefaultSchema is the schema used when none is configured ("main" for
	// SQLite and DuckDB, "public" for Postgres, empty for MySQL).
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// MaxParams is the bound-parameter limit of one statement. Zero means
	// no limit.
	MaxParams int

	// ColumnTypes maps a frame column type ("int", "float", "string",
	// "bool") to the SQL type used in CREATE TABLE.
	ColumnTypes map[string]string
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `
	QuoteEnd string // End quote character (usually same as Quote)
	Escape   string // Escape sequence for an embedded end quote: "", ``
}

// FormatPlaceholder returns the placeholder for the n-th parameter (1-based).
func (d *DialectConfig) FormatPlaceholder(n int) string {
	if d.Placeholder == PlaceholderDollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// QuoteIdentifier quotes name, escaping embedded end quotes.
func (d *DialectConfig) QuoteIdentifier(name string) string {
	end := d.Identifiers.QuoteEnd
	if end == "" {
		end = d.Identifiers.Quote
	}
	return d.Identifiers.Quote + strings.ReplaceAll(name, end, d.Identifiers.Escape) + end
}

// QualifiedName quotes table, prefixed with schema when one is given.
func (d *DialectConfig) QualifiedName(schema, table string) string {
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

// ColumnType returns the SQL type for a frame column type. Unknown types
// map to the string type.
func (d *DialectConfig) ColumnType(kind string) string {
	if t, ok := d.ColumnTypes[kind]; ok {
		return t
	}
	return d.ColumnTypes["string"]
}
