package core

// TargetConfig holds output store configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres, mysql

	// File-based databases (SQLite, DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema    string `koanf:"schema"`
	BatchSize int    `koanf:"batch_size"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (pragmas, extensions, settings)
	Params map[string]any `koanf:"params"`
}

// IsFileBased reports whether Database names a local file.
func (t *TargetConfig) IsFileBased() bool {
	return t.Type == "" || t.Type == "sqlite" || t.Type == "duckdb"
}

// ToAdapterConfig converts the target into the adapter's connection config.
func (t *TargetConfig) ToAdapterConfig() AdapterConfig {
	cfg := AdapterConfig{
		Type:      t.Type,
		Host:      t.Host,
		Port:      t.Port,
		Username:  t.User,
		Password:  t.Password,
		Schema:    t.Schema,
		BatchSize: t.BatchSize,
		Options:   t.Options,
		Params:    t.Params,
	}
	if t.IsFileBased() {
		cfg.Path = t.Database
	} else {
		cfg.Database = t.Database
	}
	return cfg
}
