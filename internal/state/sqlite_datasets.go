package state

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapetl/pkg/core"
)

// RecordDatasetRun stores the outcome of one dataset. An empty ID is
// assigned a new one.
func (s *SQLiteStore) RecordDatasetRun(dr *core.DatasetRun) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if dr.ID == "" {
		dr.ID = generateID()
	}

	s.logger.Debug("recording dataset run",
		slog.String("run_id", dr.RunID),
		slog.String("dataset", dr.Dataset),
		slog.String("status", string(dr.Status)))

	_, err := s.db.Exec(`
		INSERT INTO dataset_runs (
			id, run_id, dataset, table_name, source, status, stage,
			rows_loaded, rows_cleaned, rows_written, started_at, completed_at, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dr.ID, dr.RunID, dr.Dataset, dr.Table, dr.Source, string(dr.Status), dr.Stage,
		dr.RowsLoaded, dr.RowsCleaned, dr.RowsWritten,
		toUnix(dr.StartedAt), toUnix(dr.CompletedAt), nullString(dr.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to record dataset run: %w", err)
	}
	return nil
}

// ListDatasetRuns returns the dataset runs of a run in the order they ran.
func (s *SQLiteStore) ListDatasetRuns(runID string) ([]*core.DatasetRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`
		SELECT id, run_id, dataset, table_name, source, status, stage,
			rows_loaded, rows_cleaned, rows_written, started_at, completed_at, COALESCE(error, '')
		FROM dataset_runs WHERE run_id = ?
		ORDER BY started_at, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.DatasetRun
	for rows.Next() {
		var (
			dr          core.DatasetRun
			status      string
			startedAt   int64
			completedAt int64
		)
		if err := rows.Scan(&dr.ID, &dr.RunID, &dr.Dataset, &dr.Table, &dr.Source, &status, &dr.Stage,
			&dr.RowsLoaded, &dr.RowsCleaned, &dr.RowsWritten, &startedAt, &completedAt, &dr.Error); err != nil {
			return nil, fmt.Errorf("failed to scan dataset run: %w", err)
		}
		dr.Status = core.DatasetRunStatus(status)
		dr.StartedAt = fromUnix(startedAt)
		dr.CompletedAt = fromUnix(completedAt)
		out = append(out, &dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dataset runs: %w", err)
	}
	return out, nil
}
