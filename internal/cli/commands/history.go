package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded lint and fix runs",
		Long: `List the runs recorded with --history, most recent first, or show the
violations of one run. The history database lives at history.path
(default .leaplint/history.db in the project).`,
		Example: `  # Recent runs
  leaplint history

  # Violations of one run
  leaplint history 3f2a9c1e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().String("history-path", "", "Path of the history database")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer

	path := cmdCtx.Cfg.History.Path
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if len(args) > 0 {
			return fmt.Errorf("%w: %s", state.ErrRunNotFound, args[0])
		}
		if r.EffectiveMode().IsStructured() {
			return r.Structured([]output.RunOutput{})
		}
		r.Println("No runs recorded. Run lint or fix with --history to record them.")
		return nil
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(path); err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	if len(args) > 0 {
		return showRun(r, store, args[0])
	}
	return listRuns(r, store, opts.Limit)
}

func runOutput(run *state.Run) output.RunOutput {
	return output.RunOutput{
		ID:         run.ID,
		Command:    run.Command,
		Dialect:    run.Dialect,
		Status:     string(run.Status),
		Files:      run.Files,
		Violations: run.Violations,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

func listRuns(r *output.Renderer, store state.Store, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	out := make([]output.RunOutput, 0, len(runs))
	for _, run := range runs {
		out = append(out, runOutput(run))
	}
	if r.EffectiveMode().IsStructured() {
		return r.Structured(out)
	}
	if len(out) == 0 {
		r.Println("No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(out))
	for _, run := range out {
		rows = append(rows, []string{
			run.ID,
			run.Command,
			run.Dialect,
			run.Status,
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Violations),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
		})
	}
	r.Header(fmt.Sprintf("Runs (%d)", len(out)))
	r.Table([]string{"ID", "Command", "Dialect", "Status", "Files", "Violations", "Started", "Duration"}, rows)
	return nil
}

func showRun(r *output.Renderer, store state.Store, id string) error {
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	counts, err := store.ViolationCounts(id)
	if err != nil {
		return err
	}
	violations, err := store.ListViolations(id)
	if err != nil {
		return err
	}

	out := runOutput(run)
	out.Counts = counts
	if r.EffectiveMode().IsStructured() {
		if violations == nil {
			violations = []state.RunViolation{}
		}
		return r.Structured(struct {
			output.RunOutput `yaml:",inline"`
			Details          []state.RunViolation `json:"details" yaml:"details"`
		}{out, violations})
	}

	r.Header("Run " + out.ID)
	r.KeyValue("Command", out.Command)
	r.KeyValue("Dialect", out.Dialect)
	r.KeyValue("Status", out.Status)
	r.KeyValue("Files", strconv.Itoa(out.Files))
	r.KeyValue("Violations", strconv.Itoa(out.Violations))
	r.KeyValue("Started", out.StartedAt.Local().Format("2006-01-02 15:04:05"))
	r.KeyValue("Duration", runDuration(out))
	r.Println("")

	if len(counts) > 0 {
		codes := make([]string, 0, len(counts))
		for code := range counts {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		rows := make([][]string, 0, len(codes))
		for _, code := range codes {
			rows = append(rows, []string{code, strconv.Itoa(counts[code])})
		}
		r.Table([]string{"Code", "Count"}, rows)
		r.Println("")
	}

	if len(violations) > 0 {
		rows := make([][]string, 0, len(violations))
		for _, v := range violations {
			rows = append(rows, []string{v.Path, fmt.Sprintf("%d:%d", v.Line, v.Column), v.Code, v.Description})
		}
		r.Table([]string{"Path", "Position", "Code", "Description"}, rows)
	}
	return nil
}

func runDuration(run output.RunOutput) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
