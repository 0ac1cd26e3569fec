package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(ImplicitCrossJoin)
}

// ImplicitCrossJoin flags FROM clauses listing several tables.
var ImplicitCrossJoin = lint.RuleDef{
	ID:          "AM05",
	Name:        "ambiguous.join",
	Group:       "ambiguous",
	Description: "Implicit cross join in a comma-separated FROM clause.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlImplicitCrossJoin,
	Rationale:   "A join condition left in WHERE is easy to lose, turning the query into a cartesian product.",
	BadExample:  "SELECT * FROM a, b WHERE a.id = b.id",
	GoodExample: "SELECT * FROM a JOIN b ON a.id = b.id",
	Fix:         "Write the join with JOIN ... ON, or CROSS JOIN when a product is intended.",
}

func crawlImplicitCrossJoin(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("from_clause") {
		return nil
	}
	tables := segment.GetChildren(s, "table_expression")
	if len(tables) < 2 {
		return nil
	}
	return &lint.Result{Anchor: tables[1]}
}
