package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Format   string // Output format for the remaining violations
	Jobs     int    // Files fixed at once
	DiffOnly bool   // Print a diff instead of writing files
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...|-]",
		Short: "Fix lint violations in place",
		Long: `Apply the automatic fixes of all fixable rules.

Each file is linted and fixed repeatedly until no more fixes apply or the
runaway limit is reached, then written back in place. With "-" the fixed
SQL is read from standard input and written to standard output. Files that
a templater changed are linted but never rewritten.

The violations that remain after fixing are reported; the command exits
with status 1 when any are left.`,
		Example: `  # Fix every SQL file below the current directory
  leaplint fix

  # Show what would change without writing
  leaplint fix --diff-only ./queries

  # Fix standard input
  leaplint fix - < messy.sql > clean.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	addLintFlags(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files fixed at once (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.DiffOnly, "diff-only", false, "Print a unified diff instead of writing files")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer

	paths, err := sources(cmdCtx.Engine, args)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Engine.LintFiles(cmd.Context(), paths, engine.RunOptions{
		Fix:   true,
		Write: !opts.DiffOnly,
		Jobs:  opts.Jobs,
		Stdin: cmd.InOrStdin(),
	})
	if err != nil {
		return err
	}

	// Standard input alone: the fixed SQL is the output
	if len(res.Files) == 1 && res.Files[0].Path == engine.StdinPath && !opts.DiffOnly {
		f := res.Files[0]
		_, _ = io.WriteString(cmd.OutOrStdout(), fixedOrSource(f))
		return reportRemaining(cmdCtx, res)
	}

	if opts.DiffOnly {
		for _, f := range res.Files {
			if !f.Changed() {
				continue
			}
			diff, err := unifiedDiff(f.Path, f.Source, f.Fixed)
			if err != nil {
				return err
			}
			renderDiff(r, diff)
		}
		if res.ViolationCount() > 0 {
			return ErrViolations
		}
		return nil
	}

	for _, f := range res.Files {
		if f.Changed() && f.Path != engine.StdinPath {
			cmdCtx.Logger.Info("fixed file", "path", f.Path)
		}
	}
	renderLintResults(r, res)
	if res.ViolationCount() > 0 {
		return ErrViolations
	}
	return nil
}

// reportRemaining logs what fixing could not resolve for stdin input. The
// fixed SQL owns stdout, so the violations go to stderr.
func reportRemaining(cmdCtx *CommandContext, res *engine.RunResult) error {
	if res.ViolationCount() == 0 {
		return nil
	}
	for _, v := range engine.Remaining(res.Files[0], true) {
		cmdCtx.Renderer.Warning(fmt.Sprintf("%d:%d %s %s", v.Line, v.Column, v.Code, v.Description))
	}
	return ErrViolations
}

func fixedOrSource(f *lint.FileResult) string {
	if f.Fixed != "" {
		return f.Fixed
	}
	return f.Source
}

// unifiedDiff returns the unified diff between a file and its fixed text.
func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}

// renderDiff prints a diff, colouring added and removed lines on a terminal.
func renderDiff(r *output.Renderer, diff string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Code("diff", strings.TrimSuffix(diff, "\n"))
		return
	}
	styles := r.Styles()
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			r.Println(styles.Bold.Render(body))
		case strings.HasPrefix(body, "+"):
			r.Println(styles.Success.Render(body))
		case strings.HasPrefix(body, "-"):
			r.Println(styles.Error.Render(body))
		case strings.HasPrefix(body, "@@"):
			r.Println(styles.Info.Render(body))
		default:
			r.Println(body)
		}
	}
}
