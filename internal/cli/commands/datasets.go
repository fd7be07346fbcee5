package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/leapstack-labs/leapetl/internal/cli/output"
	"github.com/leapstack-labs/leapetl/internal/engine"
	"github.com/leapstack-labs/leapetl/pkg/transform"
	"github.com/spf13/cobra"
)

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"list"},
		Short:   "List datasets, their sources and output columns",
		Long: heredoc.Doc(`
			List every dataset the pipeline knows, in run order, with the source
			it is read from, the table it is written to and that table's exact
			column layout.`),
		Example: heredoc.Doc(`
			leapetl datasets
			leapetl datasets -o json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			datasets, err := buildDatasets(cmdCtx.Cfg)
			if err != nil {
				return err
			}
			return renderDatasets(cmdCtx.Renderer, datasets)
		},
	}
}

// datasetInfo is the JSON form of a dataset.
type datasetInfo struct {
	Name         string   `json:"name"`
	Table        string   `json:"table"`
	Description  string   `json:"description"`
	Source       string   `json:"source"`
	Delimiter    string   `json:"delimiter"`
	Drop         []string `json:"drop"`
	Impute       bool     `json:"impute"`
	Dedupe       bool     `json:"dedupe"`
	DropZeroRows []string `json:"drop_zero_rows,omitempty"`
	Columns      []string `json:"columns"`
	Placeholders []string `json:"placeholders,omitempty"`
}

func renderDatasets(r *output.Renderer, datasets []engine.Dataset) error {
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]datasetInfo, 0, len(datasets))
		for _, ds := range datasets {
			infos = append(infos, datasetInfo{
				Name:         ds.Spec.Name,
				Table:        ds.Spec.Table,
				Description:  ds.Spec.Description,
				Source:       ds.Source,
				Delimiter:    string(ds.Delimiter),
				Drop:         ds.Spec.Drop,
				Impute:       ds.Spec.Impute,
				Dedupe:       ds.Spec.Dedupe,
				DropZeroRows: ds.Spec.DropZero,
				Columns:      ds.Spec.Columns,
				Placeholders: ds.Spec.Placeholders,
			})
		}
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Datasets (%d total)", len(datasets)))
	for _, ds := range datasets {
		r.Println("")
		r.Header(2, ds.Spec.Name)
		r.KeyValue("Description", ds.Spec.Description)
		r.KeyValue("Source", ds.Source)
		if ds.Delimiter != 0 && ds.Delimiter != ',' {
			r.KeyValue("Delimiter", strconv.QuoteRune(ds.Delimiter))
		}
		r.KeyValue("Table", ds.Spec.Table)
		r.KeyValue("Steps", strings.Join(datasetSteps(ds.Spec), " -> "))
		r.KeyValue(fmt.Sprintf("Columns (%d)", len(ds.Spec.Columns)), output.FormatList(ds.Spec.Columns))
		if len(ds.Spec.Placeholders) > 0 {
			r.KeyValue("Always empty", output.FormatList(ds.Spec.Placeholders))
		}
	}
	return nil
}

// datasetSteps names the transform steps a spec enables.
func datasetSteps(s transform.Spec) []string {
	steps := []string{fmt.Sprintf("drop %d columns", len(s.Drop))}
	if s.Impute {
		steps = append(steps, "impute")
	}
	if len(s.DropZero) > 0 {
		steps = append(steps, "drop zero rows")
	}
	if s.Dedupe {
		steps = append(steps, "dedupe")
	}
	if len(s.Rename) > 0 {
		steps = append(steps, fmt.Sprintf("rename %d", len(s.Rename)))
	}
	return append(steps, "select")
}

// completeDatasets completes dataset names for --dataset.
func completeDatasets(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return transform.Names(), cobra.ShellCompDirectiveNoFileComp
}
