package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Impute fills missing values column by column. Numeric columns get the mean
// of their present values; an int column that receives a mean becomes a float
// column. Other columns get their most frequent present value, ties going to
// the value seen first in row order.
//
// A column whose values are all missing has no mean or mode and yields an
// *ImputeError. Columns without missing values are left as they are.
func Impute(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	out := df
	for _, name := range df.Names() {
		s := df.Col(name)
		mask := s.IsNaN()

		missing := 0
		for _, na := range mask {
			if na {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		if missing == len(mask) {
			return dataframe.DataFrame{}, &ImputeError{Column: name}
		}

		var filled series.Series
		if IsNumeric(s.Type()) {
			filled = fillMean(s, mask)
		} else {
			filled = fillMode(s, mask)
		}

		out = out.Mutate(filled)
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("impute %q: %w", name, out.Err)
		}
	}
	return out, nil
}

// IsNumeric reports whether a column type takes mean imputation.
func IsNumeric(t series.Type) bool {
	return t == series.Int || t == series.Float
}

// Mean returns the mean of the present values of a series. ok is false when
// every value is missing.
func Mean(s series.Series) (mean float64, ok bool) {
	vals := s.Float()
	var sum float64
	n := 0
	for i, na := range s.IsNaN() {
		if na {
			continue
		}
		sum += vals[i]
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Mode returns the most frequent present value of a series in its text form.
// Ties go to the value that occurs first. ok is false when every value is
// missing.
func Mode(s series.Series) (mode string, ok bool) {
	recs := s.Records()
	counts := make(map[string]int)
	var order []string
	for i, na := range s.IsNaN() {
		if na {
			continue
		}
		v := recs[i]
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

func fillMean(s series.Series, mask []bool) series.Series {
	mean, _ := Mean(s)
	vals := s.Float()
	for i, na := range mask {
		if na {
			vals[i] = mean
		}
	}
	return series.New(vals, series.Float, s.Name)
}

func fillMode(s series.Series, mask []bool) series.Series {
	mode, _ := Mode(s)
	recs := s.Records()
	for i, na := range mask {
		if na {
			recs[i] = mode
		}
	}
	return series.New(recs, s.Type(), s.Name)
}
