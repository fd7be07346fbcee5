package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// QueryFormats are the accepted --format values.
var QueryFormats = []string{"table", "json", "csv", "md"}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the output database",
		Long: heredoc.Doc(`
			Run SQL against the target database the pipeline writes to.

			The statement is taken from the arguments, from --input, or from
			standard input when it is piped. Use the tables and schema
			subcommands to see what has been written.`),
		Example: heredoc.Doc(`
			# Execute SQL directly
			leapetl query 'SELECT "State", COUNT(*) FROM "Gun_violence_data" GROUP BY 1'

			# List tables
			leapetl query tables

			# Show the columns of a table
			leapetl query schema US_State_GDP_data

			# Output as CSV
			leapetl query 'SELECT * FROM "GDP_Per_Capita_data"' --format csv`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return QueryFormats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

// withAdapter runs fn against the connected output store.
func withAdapter(cmd *cobra.Command, fn func(ctx context.Context, db adapter.Adapter) error) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	db, err := cmdCtx.Engine.Adapter(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, db)
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	}

	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL given (pass it as an argument, with --input, or on stdin)")
	}

	return withAdapter(cmd, func(ctx context.Context, db adapter.Adapter) error {
		return executeAndRender(ctx, cmd.OutOrStdout(), db, sqlQuery, opts.Format)
	})
}

func executeAndRender(ctx context.Context, w io.Writer, db adapter.Adapter, sqlQuery, format string) error {
	rows, err := db.Query(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows.Rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the output database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			return withAdapter(cmd, func(ctx context.Context, db adapter.Adapter) error {
				return listTables(ctx, cmd.OutOrStdout(), db, opts.Format)
			})
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			return withAdapter(cmd, func(ctx context.Context, db adapter.Adapter) error {
				return showSchema(ctx, cmd.OutOrStdout(), db, args[0], opts.Format)
			})
		},
	}
}

func validateFormat(format string) error {
	for _, f := range QueryFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(QueryFormats, ", "))
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
