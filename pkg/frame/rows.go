package frame

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// missingKey stands for a missing cell in a row key. Present cells are
// quoted, so it never collides with a value.
const missingKey = "NA"

// DropDuplicates removes rows that repeat an earlier row exactly. Missing
// values compare equal to each other.
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	n := df.Nrow()
	if n < 2 {
		return df, nil
	}

	cols := make([][]string, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, cellKeys(df.Col(name)))
	}

	seen := make(map[string]struct{}, n)
	keep := make([]bool, n)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.Reset()
		for _, col := range cols {
			b.WriteString(col[i])
			b.WriteByte(',')
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}
	return subsetRows(df, keep)
}

// DropZeroRows removes rows in which every listed column is zero or missing.
func DropZeroRows(df dataframe.DataFrame, columns ...string) (dataframe.DataFrame, error) {
	if err := requireColumns("drop zero rows", df, columns); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(columns) == 0 {
		return df, nil
	}

	keep := make([]bool, df.Nrow())
	for _, name := range columns {
		s := df.Col(name)
		mask := s.IsNaN()
		var vals []float64
		if IsNumeric(s.Type()) {
			vals = s.Float()
		}
		for i, na := range mask {
			if na {
				continue
			}
			if vals == nil || vals[i] != 0 {
				keep[i] = true
			}
		}
	}
	return subsetRows(df, keep)
}

// cellKeys renders each cell of a series as a quoted comparison key. Floats
// use the shortest exact form so values that print alike under gota's fixed
// precision stay distinct.
func cellKeys(s series.Series) []string {
	mask := s.IsNaN()
	if s.Type() == series.Float {
		vals := s.Float()
		out := make([]string, len(vals))
		for i, v := range vals {
			if mask[i] || math.IsNaN(v) {
				out[i] = missingKey
				continue
			}
			out[i] = strconv.Quote(strconv.FormatFloat(v, 'g', -1, 64))
		}
		return out
	}

	out := s.Records()
	for i, na := range mask {
		if na {
			out[i] = missingKey
			continue
		}
		out[i] = strconv.Quote(out[i])
	}
	return out
}
