package transform

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/leapstack-labs/leapetl/pkg/frame"
)

// step is one named frame operation.
type step struct {
	name  string
	apply func(dataframe.DataFrame) (dataframe.DataFrame, error)
}

// steps returns the operations of s in execution order:
// drop, impute, drop zero rows, dedupe, rename, select.
func (s Spec) steps() []step {
	var out []step
	if len(s.Drop) > 0 {
		out = append(out, step{"drop columns", func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return frame.Drop(df, s.Drop...)
		}})
	}
	if s.Impute {
		out = append(out, step{"impute", frame.Impute})
	}
	if len(s.DropZero) > 0 {
		out = append(out, step{"drop zero rows", func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return frame.DropZeroRows(df, s.DropZero...)
		}})
	}
	if s.Dedupe {
		out = append(out, step{"drop duplicates", frame.DropDuplicates})
	}
	if len(s.Rename) > 0 {
		out = append(out, step{"rename columns", func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return frame.Rename(df, s.Rename...)
		}})
	}
	out = append(out, step{"select columns", func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
		return frame.Reindex(df, s.Placeholders, s.Columns...)
	}})
	return out
}

// StepNames lists the operations Apply performs for s, in order.
func (s Spec) StepNames() []string {
	steps := s.steps()
	out := make([]string, len(steps))
	for i, st := range steps {
		out[i] = st.name
	}
	return out
}

// Apply runs the steps of spec over df. The first failing step aborts the
// transform and no frame is returned.
func Apply(ctx context.Context, spec Spec, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cur := df
	for _, st := range spec.steps() {
		if err := ctx.Err(); err != nil {
			return dataframe.DataFrame{}, err
		}
		next, err := st.apply(cur)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%s: %s: %w", spec.Name, st.name, err)
		}
		cur = next
	}
	return cur, nil
}
