// Package transform turns a cleaned source frame into the fixed table shape
// of one dataset.
//
// Each dataset is a declarative Spec: the columns to drop, whether to impute
// and deduplicate, the renames to apply and the final column order. Apply
// runs the steps of a Spec in a fixed order and Verify checks the result
// against the Spec's column contract.
package transform

import (
	"github.com/leapstack-labs/leapetl/pkg/frame"
)

// Spec describes how one dataset is shaped into its output table.
type Spec struct {
	// Name identifies the dataset (gun_violence, state_gdp, gdp_per_capita).
	Name string
	// Table is the destination table name.
	Table string
	// Description is a one-line summary for listings.
	Description string
	// Drop lists source columns removed first. All must exist.
	Drop []string
	// Impute fills missing values with the column mean or mode.
	Impute bool
	// DropZero removes rows whose listed columns are all zero or missing.
	DropZero []string
	// Dedupe removes exact duplicate rows.
	Dedupe bool
	// Rename is applied as one mapping after the row steps.
	Rename []frame.RenamePair
	// Columns is the exact ordered output schema.
	Columns []string
	// Placeholders are output columns that may be absent from the source.
	// They are added with every value missing and are exempt from the
	// missing-value check.
	Placeholders []string
}

// IsPlaceholder reports whether column is exempt from the missing-value check.
func (s Spec) IsPlaceholder(column string) bool {
	for _, p := range s.Placeholders {
		if p == column {
			return true
		}
	}
	return false
}

// WithDropZero returns a copy of s that also drops all-zero rows over columns.
func (s Spec) WithDropZero(columns ...string) Spec {
	out := s
	out.DropZero = append(append([]string(nil), s.DropZero...), columns...)
	return out
}
