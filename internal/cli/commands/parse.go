package commands

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format   string // text, yaml or json
	CodeOnly bool   // Drop whitespace, newlines and comments from the tree
	Strict   bool   // Fail when any file has parse violations
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [paths...|-]",
		Short: "Print the parse tree of SQL files",
		Long: `Parse SQL files and print their concrete syntax trees.

The text format prints one segment per line with its position and, for
leaves, its raw text. The yaml and json formats print a simplified record
of the tree. Template, lex and parse violations are listed after each
tree.`,
		Example: `  # Print the tree of a file
  leaplint parse report.sql

  # Structure only, as YAML
  leaplint parse --format yaml --code-only report.sql

  # Only expand the top two levels
  leaplint parse --recurse 2 report.sql

  # Fail on unparsable SQL
  leaplint parse --strict ./queries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, yaml, json")
	cmd.Flags().BoolVar(&opts.CodeOnly, "code-only", false, "Only show code segments")
	cmd.Flags().Int("recurse", segment.RecurseUnlimited, "Expansion depth (-1 for unlimited)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when parse violations are found")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
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

	var results []output.ParseOutput
	violations := 0
	for _, path := range paths {
		raw, err := readSource(cmd, path)
		if err != nil {
			return err
		}
		parsed, err := cmdCtx.Engine.Parse(cmd.Context(), "", raw, path)
		if err != nil {
			return err
		}
		violations += len(parsed.Violations)

		if r.EffectiveMode().IsStructured() {
			res := output.ParseOutput{Path: path, Violations: output.ParseViolations(parsed.Violations)}
			if parsed.Tree != nil {
				rec := segment.AsRecord(parsed.Tree, segment.TupleOptions{CodeOnly: opts.CodeOnly})
				res.Tree = &rec
			}
			results = append(results, res)
			continue
		}
		renderParsed(r, path, parsed, opts.CodeOnly, len(paths) > 1)
	}

	if r.EffectiveMode().IsStructured() {
		if len(results) == 1 {
			if err := r.Structured(results[0]); err != nil {
				return err
			}
		} else if err := r.Structured(results); err != nil {
			return err
		}
	}

	if opts.Strict && violations > 0 {
		return fmt.Errorf("%w: %d parse violations", ErrViolations, violations)
	}
	return nil
}

func renderParsed(r *output.Renderer, path string, parsed *parser.Parsed, codeOnly, withHeader bool) {
	if withHeader {
		r.Header(path)
	}
	if parsed.Tree != nil {
		tree := segment.Stringify(parsed.Tree, codeOnly)
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Code("", tree)
		} else {
			r.Printf("%s", tree)
		}
	}
	renderParseViolations(r, parsed.Violations)
	r.Println("")
}

// renderParseViolations prints template, lex and parse errors in the
// layout of lint violations.
func renderParseViolations(r *output.Renderer, errs []*parser.ParseError) {
	if len(errs) == 0 {
		return
	}
	r.Println("")
	r.Println(r.Styles().Bold.Render(fmt.Sprintf("%d violations", len(errs))))
	for _, e := range errs {
		r.Printf("  %s  %s  %s\n",
			r.Styles().Muted.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%d:%d", e.Pos.Line, e.Pos.Column))),
			r.Styles().Error.Render(e.Code),
			e.Message,
		)
	}
}
