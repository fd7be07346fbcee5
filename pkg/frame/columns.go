package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RenamePair maps an existing column name to its replacement.
type RenamePair struct {
	Old string
	New string
}

// Drop removes the named columns. If any name is absent nothing is removed.
func Drop(df dataframe.DataFrame, names ...string) (dataframe.DataFrame, error) {
	if err := requireColumns("drop", df, names); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(names) == 0 {
		return df, nil
	}

	out := df.Drop(names)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drop: %w", out.Err)
	}
	return out, nil
}

// Rename applies the pairs as one mapping, so chained or swapped names are
// allowed as long as the resulting names are unique. When an old name is
// listed twice the last pair wins.
func Rename(df dataframe.DataFrame, pairs ...RenamePair) (dataframe.DataFrame, error) {
	olds := make([]string, len(pairs))
	mapping := make(map[string]string, len(pairs))
	for i, p := range pairs {
		olds[i] = p.Old
		mapping[p.Old] = p.New
	}
	if err := requireColumns("rename", df, olds); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(pairs) == 0 {
		return df, nil
	}

	names := df.Names()
	final := make([]string, len(names))
	for i, name := range names {
		final[i] = name
		if to, ok := mapping[name]; ok {
			final[i] = to
		}
	}
	if dup := duplicates(final); len(dup) > 0 {
		return dataframe.DataFrame{}, &ColumnError{Op: "rename", Columns: dup, Err: ErrDuplicateColumn}
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
		cols[i].Name = final[i]
	}
	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("rename: %w", out.Err)
	}
	return out, nil
}

// Select returns exactly the named columns in the given order. Columns not
// named are dropped.
func Select(df dataframe.DataFrame, names ...string) (dataframe.DataFrame, error) {
	return Reindex(df, nil, names...)
}

// Reindex is Select, except that names listed in placeholders may be absent;
// those are added as string columns whose every value is missing.
func Reindex(df dataframe.DataFrame, placeholders []string, names ...string) (dataframe.DataFrame, error) {
	if dup := duplicates(names); len(dup) > 0 {
		return dataframe.DataFrame{}, &ColumnError{Op: "select", Columns: dup, Err: ErrDuplicateColumn}
	}

	allowed := make(map[string]bool, len(placeholders))
	for _, p := range placeholders {
		allowed[p] = true
	}

	var required, fill []string
	for _, name := range absent(df, names) {
		if allowed[name] {
			fill = append(fill, name)
		} else {
			required = append(required, name)
		}
	}
	if len(required) > 0 {
		return dataframe.DataFrame{}, &ColumnError{Op: "select", Columns: required, Err: ErrMissingColumn}
	}

	out := df
	for _, name := range fill {
		out = out.Mutate(missingColumn(name, df.Nrow()))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("select: add %q: %w", name, out.Err)
		}
	}

	out = out.Select(names)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select: %w", out.Err)
	}
	return out, nil
}

func missingColumn(name string, n int) series.Series {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = "NaN"
	}
	return series.New(vals, series.String, name)
}

func requireColumns(op string, df dataframe.DataFrame, names []string) error {
	if missing := absent(df, names); len(missing) > 0 {
		return &ColumnError{Op: op, Columns: missing, Err: ErrMissingColumn}
	}
	return nil
}

// absent returns the names not present in df, in request order.
func absent(df dataframe.DataFrame, names []string) []string {
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	var out []string
	for _, name := range names {
		if !have[name] {
			out = append(out, name)
		}
	}
	return out
}

func duplicates(names []string) []string {
	seen := make(map[string]int, len(names))
	var out []string
	for _, name := range names {
		seen[name]++
		if seen[name] == 2 {
			out = append(out, name)
		}
	}
	return out
}
