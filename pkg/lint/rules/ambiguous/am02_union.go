package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(UnionWithoutQuantifier)
}

// UnionWithoutQuantifier flags a bare UNION.
var UnionWithoutQuantifier = lint.RuleDef{
	ID:          "AM02",
	Name:        "ambiguous.union",
	Group:       "ambiguous",
	Description: "UNION without DISTINCT or ALL.",
	Severity:    core.SeverityInfo,
	Crawl:       crawlUnion,
	Rationale:   "A bare UNION silently removes duplicates; readers often expect UNION ALL.",
	BadExample:  "SELECT a FROM t UNION SELECT a FROM u",
	GoodExample: "SELECT a FROM t UNION ALL SELECT a FROM u",
}

func crawlUnion(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("set_operator") || !ast.HasKeyword(s, "union") || ast.HasKeyword(s, "all", "distinct") {
		return nil
	}
	return &lint.Result{Anchor: s}
}
