package aliasing

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(AliasLength)
}

// AliasLengthOptions configures AL06. Zero disables a bound.
type AliasLengthOptions struct {
	MinAliasLength int `mapstructure:"min_alias_length"`
	MaxAliasLength int `mapstructure:"max_alias_length"`
}

// AliasLength flags table aliases shorter or longer than the configured
// bounds. With no bounds configured it reports nothing.
var AliasLength = lint.RuleDef{
	ID:          "AL06",
	Name:        "aliasing.length",
	Group:       "aliasing",
	Description: "Table alias length out of bounds.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlAliasLength,
	ConfigKeys:  []string{"min_alias_length", "max_alias_length"},
	Options:     func() any { return &AliasLengthOptions{} },
	BadExample:  "SELECT o.id FROM orders o",
	GoodExample: "SELECT ord.id FROM orders ord",
}

func crawlAliasLength(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("alias_expression") {
		return nil
	}
	if p := ctx.Parent(); p == nil || !p.IsType("table_expression") {
		return nil
	}
	o, _ := ctx.Options.(*AliasLengthOptions)
	if o == nil {
		return nil
	}
	name := ast.AliasName(s)
	n := utf8.RuneCountInString(name)
	switch {
	case name == "":
		return nil
	case o.MinAliasLength > 0 && n < o.MinAliasLength:
		return &lint.Result{
			Anchor:      s,
			Description: fmt.Sprintf("Alias %q is shorter than %d characters.", name, o.MinAliasLength),
		}
	case o.MaxAliasLength > 0 && n > o.MaxAliasLength:
		return &lint.Result{
			Anchor:      s,
			Description: fmt.Sprintf("Alias %q is longer than %d characters.", name, o.MaxAliasLength),
		}
	}
	return nil
}
