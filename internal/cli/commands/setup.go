package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapetl/internal/cli/config"
	"github.com/leapstack-labs/leapetl/internal/cli/output"
	"github.com/leapstack-labs/leapetl/internal/engine"
	"github.com/leapstack-labs/leapetl/internal/source"
	"github.com/leapstack-labs/leapetl/pkg/transform"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need the state or output store.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the loaded configuration, or the defaults when the root
// command did not load one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	datasets := make(map[string]config.DatasetConfig, len(config.DefaultSources))
	for name, src := range config.DefaultSources {
		datasets[name] = config.DatasetConfig{Source: src, Delimiter: ","}
	}
	return &config.Config{
		Target:       &config.TargetConfig{Type: config.DefaultTargetType, Database: config.DefaultDatabase},
		StatePath:    config.DefaultStateFile,
		CacheDir:     config.DefaultCacheDir,
		LogFormat:    config.DefaultLogFormat,
		OutputFormat: config.DefaultOutput,
		Datasets:     datasets,
	}
}

// buildDatasets binds every built-in dataset spec to its configured source.
func buildDatasets(cfg *config.Config) ([]engine.Dataset, error) {
	var datasets []engine.Dataset
	for _, spec := range transform.Builtin() {
		dc := cfg.Datasets[spec.Name]
		src := dc.Source
		if src == "" {
			src = config.DefaultSources[spec.Name]
		}
		delim, err := config.ParseDelimiter(dc.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("datasets.%s.delimiter: %w", spec.Name, err)
		}
		if len(dc.DropZeroRows) > 0 {
			spec = spec.WithDropZero(dc.DropZeroRows...)
		}
		datasets = append(datasets, engine.Dataset{Spec: spec, Source: src, Delimiter: delim})
	}
	return datasets, nil
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	datasets, err := buildDatasets(cfg)
	if err != nil {
		return nil, err
	}

	envCreds, err := source.CredentialsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to read kaggle credentials: %w", err)
	}
	creds := source.Credentials{Username: cfg.Kaggle.Username, Key: cfg.Kaggle.Key}.Merge(envCreds)

	engineCfg := engine.Config{
		Datasets:      datasets,
		StatePath:     cfg.StatePath,
		AdapterConfig: cfg.Target.ToAdapterConfig(),
		Source: source.Config{
			CacheDir:  cfg.CacheDir,
			Kaggle:    creds,
			UserAgent: "leapetl",
			Logger:    logger,
		},
		Logger: logger,
	}

	return engine.New(engineCfg)
}
