package commands

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/leapstack-labs/leapetl/internal/cli/output"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/spf13/cobra"
)

const (
	runCmdShort = "Download, clean and load the datasets"
	runCmdLong  = `Run the pipeline for every dataset, or only the ones named with --dataset.

	Each dataset is acquired (a local file, a cached or freshly downloaded
	Kaggle dataset, or a URL), loaded with incomplete rows removed, shaped
	into its output table and written to the target database, replacing any
	previous contents. Datasets always run in the same order and the run
	stops at the first failure.

	Every run is recorded in the state database; see 'leapetl history'.`
	runCmdExample = `# Run all datasets into the default SQLite file
	leapetl run

	# Only refresh the GDP tables
	leapetl run --dataset state_gdp --dataset gdp_per_capita

	# Write into DuckDB instead
	leapetl run --target-type duckdb --database data/etl.duckdb

	# Machine-readable result
	leapetl run -o json`
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Datasets []string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:     "run",
		Short:   runCmdShort,
		Long:    heredoc.Doc(runCmdLong),
		Example: heredoc.Doc(runCmdExample),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Datasets, "dataset", "d", nil, "Dataset to run (repeatable; default: all)")
	_ = cmd.RegisterFlagCompletionFunc("dataset", completeDatasets)

	return cmd
}

// datasetRunOutput is the JSON form of one dataset's outcome.
type datasetRunOutput struct {
	Dataset     string `json:"dataset"`
	Table       string `json:"table"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	Stage       string `json:"stage,omitempty"`
	RowsLoaded  int    `json:"rows_loaded"`
	RowsCleaned int    `json:"rows_cleaned"`
	RowsWritten int    `json:"rows_written"`
	ExecutionMS int64  `json:"execution_ms"`
	Error       string `json:"error,omitempty"`
}

// runOutput is the JSON form of a run.
type runOutput struct {
	ID          string             `json:"id"`
	Status      string             `json:"status"`
	Datasets    []datasetRunOutput `json:"datasets"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	DurationMS  int64              `json:"duration_ms"`
	Error       string             `json:"error,omitempty"`
}

func newRunOutput(run *core.Run, records []*core.DatasetRun) runOutput {
	out := runOutput{
		ID:          run.ID,
		Status:      string(run.Status),
		Datasets:    make([]datasetRunOutput, 0, len(records)),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		DurationMS:  run.Duration().Milliseconds(),
		Error:       run.Error,
	}
	for _, r := range records {
		out.Datasets = append(out.Datasets, datasetRunOutput{
			Dataset:     r.Dataset,
			Table:       r.Table,
			Source:      r.Source,
			Status:      string(r.Status),
			Stage:       r.Stage,
			RowsLoaded:  r.RowsLoaded,
			RowsCleaned: r.RowsCleaned,
			RowsWritten: r.RowsWritten,
			ExecutionMS: r.ExecutionMS(),
			Error:       r.Error,
		})
	}
	return out
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	run, runErr := eng.Run(cmd.Context(), opts.Datasets...)
	if run == nil {
		return runErr
	}

	records, err := eng.GetStateStore().ListDatasetRuns(run.ID)
	if err != nil {
		return fmt.Errorf("failed to load dataset runs: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(newRunOutput(run, records)); err != nil {
			return err
		}
		return runErr
	}

	r.Header(1, fmt.Sprintf("Run %s", run.ID))
	for _, rec := range records {
		r.StatusLine(rec.Dataset, string(rec.Status), datasetDetail(rec))
	}

	elapsed := run.Duration().Round(time.Millisecond)
	if runErr != nil {
		r.Println("")
		r.Error(fmt.Sprintf("Run %s after %s", run.Status, elapsed))
		return runErr
	}

	r.Println("")
	r.Success(fmt.Sprintf("Wrote %d tables to %s in %s", len(records), cmdCtx.Cfg.Target.Type, elapsed))
	return nil
}

func datasetDetail(rec *core.DatasetRun) string {
	if rec.Status == core.DatasetRunStatusFailed {
		return fmt.Sprintf("%s failed: %s", rec.Stage, rec.Error)
	}
	return fmt.Sprintf("%s  %d rows (%d loaded, %d complete)  %dms",
		rec.Table, rec.RowsWritten, rec.RowsLoaded, rec.RowsCleaned, rec.ExecutionMS())
}
