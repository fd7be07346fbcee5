// Package state records pipeline runs in a SQLite database.
//
// The state database is separate from the output store so the output holds
// only dataset tables. Its schema is managed by embedded goose migrations.
package state

import (
	"github.com/leapstack-labs/leapetl/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// Run is an alias for core.Run.
	Run = core.Run

	// DatasetRun is an alias for core.DatasetRun.
	DatasetRun = core.DatasetRun
)

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
