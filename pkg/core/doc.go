// Package core defines the shared types of leapetl.
//
// This package contains:
//   - Adapter configuration and table metadata (AdapterConfig, Column, TableMetadata)
//   - Run bookkeeping (Run, DatasetRun) and the Store interface
//   - Target configuration as read from leapetl.yaml (TargetConfig)
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
