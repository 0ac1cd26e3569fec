package ambiguous

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(SelectStar)
}

// SelectStar flags an unqualified SELECT *. Qualified wildcards such as
// t.* name their source and pass.
var SelectStar = lint.RuleDef{
	ID:          "AM11",
	Name:        "ambiguous.select_star",
	Group:       "ambiguous",
	Description: "SELECT * used instead of explicit columns.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlSelectStar,
	Rationale:   "The result changes shape whenever an upstream table gains or loses a column.",
	BadExample:  "SELECT * FROM users",
	GoodExample: "SELECT id, name FROM users",
}

func crawlSelectStar(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("wildcard_expression") || strings.TrimSpace(s.Raw()) != "*" {
		return nil
	}
	return &lint.Result{Anchor: s}
}
