// Package config loads leapetl CLI configuration.
//
// Values are layered from built-in defaults, a leapetl.yaml file, LEAPETL_*
// environment variables and explicitly set command-line flags, in increasing
// order of precedence.
package config

import (
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/leapstack-labs/leapetl/pkg/transform"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string                   `koanf:"state_path"`
	CacheDir     string                   `koanf:"cache_dir"`
	Environment  string                   `koanf:"environment"`
	Verbose      bool                     `koanf:"verbose"`
	LogFormat    string                   `koanf:"log_format"`
	OutputFormat string                   `koanf:"output"`
	Target       *TargetConfig            `koanf:"target"`
	Kaggle       KaggleConfig             `koanf:"kaggle"`
	Datasets     map[string]DatasetConfig `koanf:"datasets"`
	Environments map[string]EnvConfig     `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// KaggleConfig holds Kaggle API credentials. KAGGLE_USERNAME and KAGGLE_KEY
// fill in whatever is left empty.
type KaggleConfig struct {
	Username string `koanf:"username"`
	Key      string `koanf:"key"`
}

// DatasetConfig overrides where a dataset is read from and how.
type DatasetConfig struct {
	// Source is a path, directory, kaggle:owner/dataset handle or URL.
	Source string `koanf:"source"`
	// Delimiter is a single character, or "tab".
	Delimiter string `koanf:"delimiter"`
	// DropZeroRows lists source columns; rows where all are zero are dropped.
	DropZeroRows []string `koanf:"drop_zero_rows"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultDatabase   = "data/us_gun_violence_with_economy.db"
	DefaultStateFile  = ".leapetl/state.db"
	DefaultCacheDir   = ".leapetl/cache"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// DefaultSources maps each dataset to its Kaggle source.
var DefaultSources = map[string]string{
	transform.GunViolence:  "kaggle:jameslko/gun-violence-data",
	transform.StateGDP:     "kaggle:davidbroberts/us-gdp-by-state-19972020",
	transform.GDPPerCapita: "kaggle:solorzano/gdp-per-capita-in-us-states",
}
