package aliasing

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(ExpressionAlias)
}

// ExpressionAlias flags computed select columns that have no alias.
var ExpressionAlias = lint.RuleDef{
	ID:          "AL03",
	Name:        "aliasing.expression",
	Group:       "aliasing",
	Description: "Column expression without alias.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlExpressionAlias,
	Rationale:   "Engines name unaliased expressions differently, so downstream references break across databases.",
	BadExample:  "SELECT count(*) FROM t",
	GoodExample: "SELECT count(*) AS row_count FROM t",
}

func crawlExpressionAlias(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("select_clause_element") || segment.GetChild(s, "alias_expression") != nil {
		return nil
	}
	expr := segment.GetChild(s, "function", "expression", "case_expression")
	if expr == nil {
		return nil
	}
	return &lint.Result{Anchor: expr}
}
