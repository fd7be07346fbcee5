package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/leapstack-labs/leapetl/internal/cli/config"
	"github.com/leapstack-labs/leapetl/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const initHeader = `# leapetl configuration.
#
# Relative paths are resolved against this file's directory. Any value can be
# overridden with LEAPETL_* environment variables (LEAPETL_TARGET__TYPE sets
# target.type) or command-line flags. Kaggle credentials are read from
# KAGGLE_USERNAME and KAGGLE_KEY when kaggle.username/key are not set here.

`

// initConfig is the file written by init.
type initConfig struct {
	Target    initTarget             `yaml:"target"`
	StatePath string                 `yaml:"state_path"`
	CacheDir  string                 `yaml:"cache_dir"`
	Datasets  map[string]initDataset `yaml:"datasets"`
}

type initTarget struct {
	Type      string `yaml:"type"`
	Database  string `yaml:"database"`
	BatchSize int    `yaml:"batch_size"`
}

type initDataset struct {
	Source    string `yaml:"source"`
	Delimiter string `yaml:"delimiter"`
}

func defaultInitConfig() initConfig {
	datasets := make(map[string]initDataset, len(config.DefaultSources))
	for name, src := range config.DefaultSources {
		datasets[name] = initDataset{Source: src, Delimiter: ","}
	}
	return initConfig{
		Target: initTarget{
			Type:      config.DefaultTargetType,
			Database:  config.DefaultDatabase,
			BatchSize: 500,
		},
		StatePath: config.DefaultStateFile,
		CacheDir:  config.DefaultCacheDir,
		Datasets:  datasets,
	}
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default leapetl.yaml",
		Long: heredoc.Doc(`
			Write a leapetl.yaml with the default target, state and cache
			locations and the Kaggle source of every dataset, ready to edit.`),
		Example: heredoc.Doc(`
			# Initialize in current directory
			leapetl init

			# Initialize in a new directory
			leapetl init my-etl

			# Force overwrite existing config
			leapetl init --force`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContextWithoutEngine(cmd).Renderer
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(defaultInitConfig()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("leapetl project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Export KAGGLE_USERNAME and KAGGLE_KEY, or point datasets.*.source at local files")
	r.Println("  2. Run 'leapetl run' to build the tables")
	r.Println("  3. Run 'leapetl query tables' to inspect the result")

	return nil
}
