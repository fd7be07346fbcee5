package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapetl/internal/cli/output"
	"github.com/leapstack-labs/leapetl/internal/state"
	"github.com/leapstack-labs/leapetl/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	RunID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Long: heredoc.Doc(`
			Show runs recorded in the state database, newest first.

			With --run, show every dataset of one run with its row counts and,
			for a failed dataset, the stage it failed in.`),
		Example: heredoc.Doc(`
			leapetl history
			leapetl history --limit 50
			leapetl history --run 3f0c2a4e-8d0b-4a51-9a55-0b7f4c6f7e21 -o json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "Show the datasets of one run (\"latest\" for the newest)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.GetStateStore()
	r := cmdCtx.Renderer

	if opts.RunID != "" {
		return showRun(r, store, opts.RunID)
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := make([]runOutput, 0, len(runs))
		for _, run := range runs {
			out = append(out, newRunOutput(run, nil))
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Runs (%d)", len(runs))))
		r.Println("")
		if len(runs) == 0 {
			r.Println("No runs recorded.")
			return nil
		}
		runsTable(r, runs).RenderMarkdown()
		return nil
	default:
		if len(runs) == 0 {
			r.Muted("No runs recorded. Use 'leapetl run' to start one.")
			return nil
		}
		runsTable(r, runs).Render()
		return nil
	}
}

func runsTable(r *output.Renderer, runs []*core.Run) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Started", "Status", "Duration", "Datasets", "Error"})
	titleCaser := cases.Title(language.English)
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			titleCaser.String(string(run.Status)),
			run.Duration().Round(time.Millisecond),
			strings.Join(run.Datasets, ", "),
			truncate(run.Error, 60),
		})
	}
	return t
}

func showRun(r *output.Renderer, store state.Store, id string) error {
	var run *core.Run
	var err error
	if id == "latest" {
		run, err = store.GetLatestRun()
		if err == nil && run == nil {
			return fmt.Errorf("no runs recorded")
		}
	} else {
		run, err = store.GetRun(id)
	}
	if err != nil {
		return err
	}

	records, err := store.ListDatasetRuns(run.ID)
	if err != nil {
		return fmt.Errorf("failed to load dataset runs: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(newRunOutput(run, records))
	}

	r.Header(1, fmt.Sprintf("Run %s", run.ID))
	r.KeyValue("Status", string(run.Status))
	r.KeyValue("Started", run.StartedAt.Local().Format(time.DateTime))
	r.KeyValue("Duration", run.Duration().Round(time.Millisecond).String())
	if run.Error != "" {
		r.KeyValue("Error", run.Error)
	}
	r.Println("")
	for _, rec := range records {
		r.StatusLine(rec.Dataset, string(rec.Status), datasetDetail(rec))
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
