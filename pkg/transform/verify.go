package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// ContractError reports a transformed frame that does not match its Spec.
type ContractError struct {
	Dataset string
	// Want and Got are set when the column list differs.
	Want []string
	Got  []string
	// Missing lists non-placeholder columns that still hold missing values.
	Missing []string
}

func (e *ContractError) Error() string {
	if e.Want != nil {
		return fmt.Sprintf("%s: column contract violated: want %d columns [%s], got %d [%s]",
			e.Dataset, len(e.Want), strings.Join(e.Want, ", "), len(e.Got), strings.Join(e.Got, ", "))
	}
	return fmt.Sprintf("%s: missing values in columns: %s", e.Dataset, strings.Join(e.Missing, ", "))
}

// Verify checks that df has exactly spec.Columns in order and that only
// placeholder columns hold missing values.
func Verify(spec Spec, df dataframe.DataFrame) error {
	got := df.Names()
	if !slices.Equal(got, spec.Columns) {
		return &ContractError{Dataset: spec.Name, Want: spec.Columns, Got: got}
	}

	var missing []string
	for _, name := range got {
		if spec.IsPlaceholder(name) {
			continue
		}
		if slices.Contains(df.Col(name).IsNaN(), true) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ContractError{Dataset: spec.Name, Missing: missing}
	}
	return nil
}
