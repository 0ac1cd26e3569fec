package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/spf13/cobra"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format string // Output format: text, markdown, json, yaml
	Jobs   int    // Files linted at once
	Watch  bool   // Re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...|-]",
		Short: "Run lint rules on SQL files",
		Long: `Analyze SQL files for layout and style issues.

Directories are walked for *.sql files; entries in .leaplintignore are
skipped. Use "-" to lint standard input. The command exits with status 1
when any violation is found.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Lint the current directory
  leaplint lint

  # Lint specific paths
  leaplint lint ./queries report.sql

  # Lint standard input as postgres
  cat q.sql | leaplint lint --dialect postgres -

  # Output as JSON
  leaplint lint --format json

  # Disable specific rules
  leaplint lint --disable AM01,LT05

  # Re-lint whenever a file changes
  leaplint lint --watch ./queries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	addLintFlags(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files linted at once (default: number of CPUs)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint changed files until interrupted")

	return cmd
}

// addLintFlags adds the configuration flags shared by lint and fix.
func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("disable", nil, "Rule IDs to disable")
	cmd.Flags().Int("runaway-limit", 0, "Maximum fix loop iterations per file")
	cmd.Flags().StringSlice("rules-path", nil, "Starlark rule files to load")
	cmd.Flags().Bool("history", false, "Record the run in the history database")
	cmd.Flags().String("history-path", "", "Path of the history database")
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	cmdCtx.WithFormat(cmd, opts.Format)

	paths, err := sources(cmdCtx.Engine, args)
	if err != nil {
		return err
	}

	runOpts := engine.RunOptions{Jobs: opts.Jobs, Stdin: cmd.InOrStdin()}
	res, err := cmdCtx.Engine.LintFiles(cmd.Context(), paths, runOpts)
	if err != nil {
		return err
	}
	renderLintResults(cmdCtx.Renderer, res)

	if opts.Watch {
		return watchLint(cmd.Context(), cmdCtx, args, runOpts)
	}
	if res.ViolationCount() > 0 {
		return ErrViolations
	}
	return nil
}

// watchLint re-lints changed files until ctx is cancelled.
func watchLint(ctx context.Context, cmdCtx *CommandContext, args []string, runOpts engine.RunOptions) error {
	w, err := cmdCtx.Engine.NewWatcher(args)
	if err != nil {
		return err
	}
	defer w.Close()

	r := cmdCtx.Renderer
	r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))
	return w.Run(ctx, engine.DefaultDebounce, func(changed []string) {
		res, err := cmdCtx.Engine.LintFiles(ctx, changed, runOpts)
		if err != nil {
			r.Error(err.Error())
			return
		}
		renderLintResults(r, res)
	})
}

// lintOutput converts a run into the structured output.
func lintOutput(res *engine.RunResult) output.LintOutput {
	out := output.LintOutput{Files: []output.LintFileResult{}}
	for _, f := range res.Files {
		out.Add(output.LintFileResult{
			Path:       f.Path,
			Fixed:      res.Fix && f.Changed(),
			Violations: engine.Remaining(f, res.Fix),
		})
	}
	return out
}

// renderLintResults prints the violations of a run.
func renderLintResults(r *output.Renderer, res *engine.RunResult) {
	out := lintOutput(res)
	if r.EffectiveMode().IsStructured() {
		_ = r.Structured(out)
		return
	}

	if out.Summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", out.Summary.FilesAnalyzed))
		return
	}

	for _, f := range out.Files {
		if len(f.Violations) == 0 {
			continue
		}
		r.Println(r.Styles().Path.Render(f.Path))
		for _, v := range f.Violations {
			renderViolation(r, v)
		}
		r.Println("")
	}

	// Print summary
	summary := out.Summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)
}

// renderViolation prints one violation line: location, severity, code, message.
func renderViolation(r *output.Renderer, v lint.Violation) {
	loc := fmt.Sprintf("%d:%d", v.Line, v.Column)
	if v.Line == 0 {
		loc = "-"
	}
	desc := v.Description
	if v.Fixable {
		desc += r.Styles().Muted.Render(" (fixable)")
	}
	r.Printf("  %s  %s  %s  %s\n",
		r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
		severityStyle(r, v.Severity),
		r.Styles().Bold.Render(v.Code),
		desc,
	)
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
