package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/core"
)

var dialectConfig = &core.DialectConfig{
	Name:        "mysql",
	Identifiers: core.IdentifierConfig{Quote: "`", Escape: "``"},
	Placeholder: core.PlaceholderQuestion,
	MaxParams:   65535,
	ColumnTypes: map[string]string{
		"int":    "BIGINT",
		"float":  "DOUBLE",
		"string": "TEXT",
		"bool":   "BOOLEAN",
	},
}

// Adapter implements the adapter.Adapter interface for MySQL.
//
// MySQL commits DDL implicitly, so a failed ReplaceTable can leave the table
// dropped or empty.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the MySQL dialect configuration.
func (a *Adapter) Dialect() *core.DialectConfig {
	return dialectConfig
}

// Connect establishes a connection to MySQL. The database doubles as the
// schema when none is configured.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	mc, err := buildMySQLConfig(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to mysql", slog.String("addr", mc.Addr), slog.String("database", mc.DBName))

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return fmt.Errorf("failed to create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	if cfg.Schema == "" {
		cfg.Schema = cfg.Database
	}
	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildMySQLConfig maps the adapter config onto a driver config.
// Options other than timeout are passed through as connection parameters.
func buildMySQLConfig(cfg adapter.Config) (*mysql.Config, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true

	for k, v := range cfg.Options {
		if k == "timeout" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid mysql timeout %q: %w", v, err)
			}
			mc.Timeout = d
			continue
		}
		if mc.Params == nil {
			mc.Params = map[string]string{}
		}
		mc.Params[k] = v
	}
	return mc, nil
}

// ReplaceTable drops and recreates table from df.
func (a *Adapter) ReplaceTable(ctx context.Context, table string, df dataframe.DataFrame) (int, error) {
	return a.ReplaceTableCommon(ctx, dialectConfig, table, df)
}

// ListTables returns the base tables of the configured database, sorted.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	return a.ListTablesCommon(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`, a.Schema(dialectConfig))
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, dialectConfig)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
