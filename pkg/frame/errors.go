package frame

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	ErrMissingColumn       = errors.New("missing column")
	ErrDuplicateColumn     = errors.New("duplicate column")
	ErrUndefinedImputation = errors.New("imputation undefined for all-missing column")
)

// ColumnError reports column names that an operation could not resolve.
type ColumnError struct {
	Op      string
	Columns []string
	Err     error
}

func (e *ColumnError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, strings.Join(quoted, ", "))
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// ImputeError is returned when a column has no present values to derive a
// mean or mode from.
type ImputeError struct {
	Column string
}

func (e *ImputeError) Error() string {
	return fmt.Sprintf("impute %q: every value is missing", e.Column)
}

func (e *ImputeError) Unwrap() error {
	return ErrUndefinedImputation
}

// LoadError wraps a failure to read or parse a delimited source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
