package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/spf13/cobra"
)

// LexOptions holds options for the lex command.
type LexOptions struct {
	Format string
}

// NewLexCommand creates the lex command.
func NewLexCommand() *cobra.Command {
	opts := &LexOptions{}
	cmd := &cobra.Command{
		Use:   "lex [paths...|-]",
		Short: "Print the tokens of SQL files",
		Long: `Template and lex SQL files and print their tokens: type, position and
raw text. Lexing never fails; text the dialect cannot tokenise becomes an
unlexable token and a violation.`,
		Example: `  # Tokens of a file
  leaplint lex report.sql

  # As JSON
  echo "SELECT 1" | leaplint lex --format json -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLex(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	return cmd
}

func runLex(cmd *cobra.Command, args []string, opts *LexOptions) error {
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

	results := make([]output.LexOutput, 0, len(paths))
	for _, path := range paths {
		raw, err := readSource(cmd, path)
		if err != nil {
			return err
		}
		lexed, err := cmdCtx.Engine.Lex(cmd.Context(), "", raw, path)
		if err != nil {
			return err
		}
		res := output.LexOutput{
			Path:       path,
			Tokens:     make([]output.TokenOutput, 0, len(lexed.Tokens)),
			Violations: output.ParseViolations(lexed.Violations),
		}
		for _, tok := range lexed.Tokens {
			pos := tok.Pos()
			res.Tokens = append(res.Tokens, output.TokenOutput{
				Type:   tok.Type(),
				Line:   pos.Line,
				Column: pos.Column,
				Raw:    tok.Raw(),
			})
		}
		results = append(results, res)

		if !r.EffectiveMode().IsStructured() {
			renderLexed(r, res, len(paths) > 1)
			renderParseViolations(r, lexed.Violations)
		}
	}

	if r.EffectiveMode().IsStructured() {
		if len(results) == 1 {
			return r.Structured(results[0])
		}
		return r.Structured(results)
	}
	return nil
}

func renderLexed(r *output.Renderer, res output.LexOutput, withHeader bool) {
	if withHeader {
		r.Header(res.Path)
	}
	rows := make([][]string, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		rows = append(rows, []string{
			tok.Type,
			fmt.Sprintf("%d:%d", tok.Line, tok.Column),
			strconv.Quote(tok.Raw),
		})
	}
	r.Table([]string{"Type", "Position", "Raw"}, rows)
}
