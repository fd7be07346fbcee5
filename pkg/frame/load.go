// Package frame provides the table operations the pipeline is assembled from:
// loading delimited text, dropping/renaming/selecting columns, imputing
// missing values and filtering rows.
//
// Tables are gota data frames. Every operation returns a new frame and leaves
// its input untouched; on error the returned frame is the zero value.
package frame

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NAValues are the cell texts treated as missing when a source is parsed.
var NAValues = []string{
	"", "NA", "N/A", "NaN", "nan", "NULL", "null",
	"<NA>", "#N/A", "n/a", "-NaN", "-nan",
}

// Read parses a delimited source with a header row into a frame. Column types
// are inferred (int, float, bool, string). A header with no records yields a
// zero-row frame of string columns.
func Read(r io.Reader, delimiter rune) (dataframe.DataFrame, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, &LoadError{Err: err}
	}
	if len(records) == 1 {
		return headerOnly(records[0]), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.NaNValues(NAValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &LoadError{Err: df.Err}
	}
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}, &LoadError{Err: errors.New("source has no columns")}
	}
	return df, nil
}

// headerOnly builds the zero-row frame for a source without records.
func headerOnly(names []string) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(names))
	for _, name := range names {
		cols = append(cols, series.New([]string{}, series.String, name))
	}
	return dataframe.New(cols...)
}

// ReadFile is Read over a file path.
func ReadFile(path string, delimiter rune) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	df, err := Read(f, delimiter)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// Load parses a source and removes every row holding a missing value.
func Load(r io.Reader, delimiter rune) (dataframe.DataFrame, error) {
	df, err := Read(r, delimiter)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return DropMissing(df)
}

// LoadFile is Load over a file path.
func LoadFile(path string, delimiter rune) (dataframe.DataFrame, error) {
	df, err := ReadFile(path, delimiter)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return DropMissing(df)
}

// DropMissing removes every row that has a missing value in any column.
func DropMissing(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range df.Names() {
		for i, na := range df.Col(name).IsNaN() {
			if na {
				keep[i] = false
			}
		}
	}
	return subsetRows(df, keep)
}

// MissingCount returns the number of missing values in a column.
func MissingCount(df dataframe.DataFrame, column string) (int, error) {
	if err := requireColumns("missing count", df, []string{column}); err != nil {
		return 0, err
	}
	n := 0
	for _, na := range df.Col(column).IsNaN() {
		if na {
			n++
		}
	}
	return n, nil
}

// subsetRows keeps the rows whose flag is set, preserving order.
func subsetRows(df dataframe.DataFrame, keep []bool) (dataframe.DataFrame, error) {
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	switch {
	case len(idx) == df.Nrow():
		return df, nil
	case len(idx) == 0:
		return emptyLike(df), nil
	}

	out := df.Subset(idx)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// emptyLike returns a frame with df's columns and types and no rows.
func emptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	cols := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, series.New([]string{}, df.Col(name).Type(), name))
	}
	return dataframe.New(cols...)
}
