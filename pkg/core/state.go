package core

import "time"

// Store defines the interface for run bookkeeping.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Run operations
	CreateRun(datasets []string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	GetLatestRun() (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	// Dataset run operations
	RecordDatasetRun(dr *DatasetRun) error
	ListDatasetRuns(runID string) ([]*DatasetRun, error)
}

// RunStatus represents the status of a pipeline run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run represents one pipeline execution.
type Run struct {
	ID          string
	Datasets    []string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Duration returns how long the run took, or 0 while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// DatasetRunStatus represents the outcome of one dataset within a run.
type DatasetRunStatus string

// Dataset run status constants.
const (
	DatasetRunStatusSuccess DatasetRunStatus = "success"
	DatasetRunStatusFailed  DatasetRunStatus = "failed"
)

// DatasetRun records one dataset processed within a run.
type DatasetRun struct {
	ID      string
	RunID   string
	Dataset string
	Table   string
	Source  string
	Status  DatasetRunStatus
	// Stage is the pipeline stage that failed (acquire, load, transform,
	// verify, persist). Empty on success.
	Stage       string
	RowsLoaded  int
	RowsCleaned int
	RowsWritten int
	StartedAt   time.Time
	CompletedAt time.Time
	Error       string
}

// ExecutionMS returns the dataset's wall time in milliseconds.
func (d *DatasetRun) ExecutionMS() int64 {
	return d.CompletedAt.Sub(d.StartedAt).Milliseconds()
}
