// Package adapter provides the output store contract for leapetl.
//
// This package contains the interface every target database implements,
// a database/sql base that does the shared work, and the registry that maps
// target.type to an implementation. Concrete adapters live in pkg/adapters/
// subdirectories and register themselves from init().
package adapter

import (
	"context"

	"github.com/go-gota/gota/dataframe"
	"github.com/leapstack-labs/leapetl/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all output stores must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// ListTables returns the user tables of the configured schema, sorted.
	ListTables(ctx context.Context) ([]string, error)

	// ReplaceTable drops table if it exists, recreates it from the frame's
	// columns and inserts every row. It returns the number of rows written.
	ReplaceTable(ctx context.Context, table string, df dataframe.DataFrame) (int, error)

	// Dialect returns the SQL dialect configuration for this adapter.
	Dialect() *core.DialectConfig
}
