package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/leapstack-labs/leapetl/pkg/frame"
	"github.com/leapstack-labs/leapetl/pkg/transform"
)

// Pipeline stages, in execution order.
const (
	StageAcquire   = "acquire"
	StageLoad      = "load"
	StageTransform = "transform"
	StageVerify    = "verify"
	StagePersist   = "persist"
)

// StageError reports the dataset and stage a run failed in.
type StageError struct {
	Dataset string
	Stage   string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("dataset %s failed during %s: %v", e.Dataset, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run processes the named datasets (all when none are given) in run order
// and returns the completed Run. Processing stops at the first failing
// dataset; tables already replaced stay replaced.
func (e *Engine) Run(ctx context.Context, names ...string) (*core.Run, error) {
	datasets, err := e.Select(names...)
	if err != nil {
		return nil, err
	}

	selected := make([]string, len(datasets))
	for i, ds := range datasets {
		selected[i] = ds.Spec.Name
	}

	run, err := e.store.CreateRun(selected)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	e.logger.Info("starting run", "run_id", run.ID, "datasets", len(datasets))
	start := time.Now()

	runErr := e.execute(ctx, run.ID, datasets)

	status, msg := core.RunStatusCompleted, ""
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		status, msg = core.RunStatusCancelled, runErr.Error()
	default:
		status, msg = core.RunStatusFailed, runErr.Error()
	}
	if err := e.store.CompleteRun(run.ID, status, msg); err != nil {
		e.logger.Warn("failed to complete run", "run_id", run.ID, "error", err)
	}

	final, err := e.store.GetRun(run.ID)
	if err != nil {
		final = run
		final.Status = status
		final.Error = msg
	}

	if runErr != nil {
		e.logger.Error("run failed", "run_id", run.ID, "status", status, "error", runErr)
		return final, runErr
	}

	e.logger.Info("run completed", "run_id", run.ID, "duration", time.Since(start).Round(time.Millisecond))
	return final, nil
}

func (e *Engine) execute(ctx context.Context, runID string, datasets []Dataset) error {
	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runDataset(ctx, runID, ds); err != nil {
			return err
		}
	}
	return nil
}

// runDataset runs one dataset through every stage and records the outcome.
func (e *Engine) runDataset(ctx context.Context, runID string, ds Dataset) error {
	rec := &core.DatasetRun{
		RunID:     runID,
		Dataset:   ds.Spec.Name,
		Table:     ds.Spec.Table,
		Source:    ds.Source,
		StartedAt: time.Now(),
	}
	log := e.logger.With(slog.String("dataset", ds.Spec.Name))
	log.Info("processing dataset", "source", ds.Source, "table", ds.Spec.Table)

	stage, err := e.process(ctx, ds, rec, log)

	rec.CompletedAt = time.Now()
	rec.Status = core.DatasetRunStatusSuccess
	if err != nil {
		rec.Status = core.DatasetRunStatusFailed
		rec.Stage = stage
		rec.Error = err.Error()
	}
	if recErr := e.store.RecordDatasetRun(rec); recErr != nil {
		log.Warn("failed to record dataset run", "error", recErr)
	}

	if err != nil {
		return &StageError{Dataset: ds.Spec.Name, Stage: stage, Err: err}
	}

	log.Info("dataset written",
		"rows_loaded", rec.RowsLoaded,
		"rows_cleaned", rec.RowsCleaned,
		"rows_written", rec.RowsWritten,
		"execution_ms", rec.ExecutionMS(),
	)
	return nil
}

// process fills rec with row counts and returns the stage that failed.
func (e *Engine) process(ctx context.Context, ds Dataset, rec *core.DatasetRun, log *slog.Logger) (string, error) {
	file, err := e.resolver.Resolve(ctx, ds.Source)
	if err != nil {
		return StageAcquire, err
	}
	log.Debug("source resolved", "file", file)

	df, err := load(ds, file, rec)
	if err != nil {
		return StageLoad, err
	}

	out, err := transform.Apply(ctx, ds.Spec, df)
	if err != nil {
		return StageTransform, err
	}

	if err := transform.Verify(ds.Spec, out); err != nil {
		return StageVerify, err
	}

	if err := e.ensureDBConnected(ctx); err != nil {
		return StagePersist, err
	}
	n, err := e.db.ReplaceTable(ctx, ds.Spec.Table, out)
	if err != nil {
		return StagePersist, err
	}
	rec.RowsWritten = n
	return "", nil
}

// load reads file and drops every row holding a missing value.
func load(ds Dataset, file string, rec *core.DatasetRun) (dataframe.DataFrame, error) {
	delim := ds.Delimiter
	if delim == 0 {
		delim = ','
	}

	df, err := frame.ReadFile(file, delim)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	rec.RowsLoaded = df.Nrow()

	df, err = frame.DropMissing(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	rec.RowsCleaned = df.Nrow()
	return df, nil
}
