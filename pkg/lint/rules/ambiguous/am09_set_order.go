package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(SetOrderLimit)
}

// SetOrderLimit flags ORDER BY or LIMIT on the last branch of a set
// operation, where it reads as if it applied to that branch alone.
var SetOrderLimit = lint.RuleDef{
	ID:          "AM09",
	Name:        "ambiguous.set_order_by",
	Group:       "ambiguous",
	Description: "ORDER BY or LIMIT after a set operation is ambiguous.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlSetOrderLimit,
	Rationale:   "Most engines apply the clause to the whole result, but it is written as part of the last query.",
	BadExample:  "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a",
	GoodExample: "SELECT a FROM (SELECT a FROM t UNION ALL SELECT a FROM u) ORDER BY a",
}

func crawlSetOrderLimit(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("set_expression") {
		return nil
	}
	branches := ast.SetBranches(s)
	if len(branches) == 0 {
		return nil
	}
	last := branches[len(branches)-1]
	if clause := segment.GetChild(last, "orderby_clause", "limit_clause"); clause != nil {
		return &lint.Result{Anchor: clause}
	}
	return nil
}
