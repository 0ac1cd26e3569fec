package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(DistinctWithGroupBy)
}

// DistinctWithGroupBy flags SELECT DISTINCT combined with GROUP BY.
var DistinctWithGroupBy = lint.RuleDef{
	ID:          "AM01",
	Name:        "ambiguous.distinct",
	Group:       "ambiguous",
	Description: "DISTINCT used with GROUP BY is redundant.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlDistinctWithGroupBy,
	Rationale:   "GROUP BY already returns one row per group, so DISTINCT only hides the intent.",
	BadExample:  "SELECT DISTINCT a FROM t GROUP BY a",
	GoodExample: "SELECT a FROM t GROUP BY a",
	Fix:         "Remove DISTINCT.",
}

func crawlDistinctWithGroupBy(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("select_statement") || segment.GetChild(s, "groupby_clause") == nil {
		return nil
	}
	clause := segment.GetChild(s, "select_clause")
	if clause == nil {
		return nil
	}
	modifier := segment.GetChild(clause, "select_clause_modifier")
	if modifier == nil || !ast.HasKeyword(modifier, "distinct") {
		return nil
	}
	return &lint.Result{Anchor: modifier}
}
