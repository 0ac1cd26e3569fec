package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Long: `List the SQL dialects leaplint can parse, the dialect each one derives
from and the number of rules that run for it. The configured dialect is
marked as the default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContextWithoutEngine(cmd)
			if err != nil {
				return err
			}
			cmdCtx.WithFormat(cmd, format)
			return listDialects(cmdCtx)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json, yaml")
	return cmd
}

func listDialects(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer

	dialects := make([]output.DialectOutput, 0, len(dialect.List()))
	for _, name := range dialect.List() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		out := output.DialectOutput{
			Name:    d.Name(),
			Default: strings.EqualFold(d.Name(), cmdCtx.Cfg.Dialect),
			Rules:   len(lint.GetByDialect(d.Name())),
		}
		if p := d.Parent(); p != nil {
			out.Parent = p.Name()
		}
		dialects = append(dialects, out)
	}

	if r.EffectiveMode().IsStructured() {
		return r.Structured(dialects)
	}

	rows := make([][]string, 0, len(dialects))
	for _, d := range dialects {
		def := ""
		if d.Default {
			def = "*"
		}
		parent := d.Parent
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{d.Name, parent, strconv.Itoa(d.Rules), def})
	}
	r.Header("Dialects")
	r.Table([]string{"Name", "Parent", "Rules", "Default"}, rows)
	return nil
}
