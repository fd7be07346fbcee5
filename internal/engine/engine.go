// Package engine runs the dataset pipeline.
// For each dataset it acquires the source file, loads and cleans it, applies
// the dataset's transform, verifies the column contract and replaces the
// output table, recording every step in the state store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapetl/internal/source"
	"github.com/leapstack-labs/leapetl/internal/state"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/transform"
)

// Dataset binds a transform spec to the source it is read from.
type Dataset struct {
	Spec transform.Spec
	// Source is a path, directory, kaggle:owner/dataset handle or URL.
	Source string
	// Delimiter separates fields in the source file. Zero means ','.
	Delimiter rune
}

// Engine orchestrates dataset runs.
type Engine struct {
	// Database adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	logger   *slog.Logger
	store    state.Store
	resolver *source.Resolver
	datasets []Dataset
}

// Config holds engine configuration.
type Config struct {
	// Datasets in the order a full run processes them.
	Datasets []Dataset
	// StatePath is the path to the SQLite state database
	StatePath string
	// AdapterConfig selects and configures the output store
	AdapterConfig adapter.Config
	// Source configures downloads and the cache directory
	Source source.Config
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine and opens its state store. The output store is
// connected on first use.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "state_path", cfg.StatePath, "datasets", len(cfg.Datasets))

	dbConfig := cfg.AdapterConfig
	if dbConfig.Type == "" {
		dbConfig.Type = "sqlite"
	}
	if !adapter.IsRegistered(dbConfig.Type) {
		return nil, &adapter.UnknownAdapterError{Type: dbConfig.Type, Available: adapter.ListAdapters()}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	srcCfg := cfg.Source
	if srcCfg.Logger == nil {
		srcCfg.Logger = logger
	}

	return &Engine{
		dbConfig: dbConfig,
		logger:   logger,
		store:    store,
		resolver: source.NewResolver(srcCfg),
		datasets: cfg.Datasets,
	}, nil
}

// ensureDBConnected lazily connects to the output store.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to database", "adapter_type", e.dbConfig.Type)

	db, err := adapter.NewAdapter(e.dbConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create database adapter: %w", err)
	}
	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.db = db
	e.dbConnected = true
	e.logger.Debug("database connected", "dialect", db.Dialect().Name)
	return nil
}

// Adapter returns the connected output store adapter.
func (e *Engine) Adapter(ctx context.Context) (adapter.Adapter, error) {
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}
	return e.db, nil
}

// Datasets returns the configured datasets in run order.
func (e *Engine) Datasets() []Dataset {
	return e.datasets
}

// Select returns the named datasets in run order. No names selects all.
func (e *Engine) Select(names ...string) ([]Dataset, error) {
	if len(names) == 0 {
		return e.datasets, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []Dataset
	for _, ds := range e.datasets {
		if want[ds.Spec.Name] {
			out = append(out, ds)
			delete(want, ds.Spec.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown dataset %q (available: %v)", n, e.datasetNames())
		}
	}
	return out, nil
}

func (e *Engine) datasetNames() []string {
	names := make([]string, len(e.datasets))
	for i, ds := range e.datasets {
		names[i] = ds.Spec.Name
	}
	return names
}

// GetStateStore returns the state store.
func (e *Engine) GetStateStore() state.Store {
	return e.store
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %v", errs)
	}
	return nil
}
