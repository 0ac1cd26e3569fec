package ambiguous

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(LimitWithoutOrder)
}

// LimitWithoutOrder flags LIMIT in a query without ORDER BY.
var LimitWithoutOrder = lint.RuleDef{
	ID:          "AM10",
	Name:        "ambiguous.limit",
	Group:       "ambiguous",
	Description: "LIMIT without ORDER BY returns an arbitrary set of rows.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlLimitWithoutOrder,
	BadExample:  "SELECT a FROM t LIMIT 10",
	GoodExample: "SELECT a FROM t ORDER BY a LIMIT 10",
}

func crawlLimitWithoutOrder(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("select_statement") || segment.GetChild(s, "orderby_clause") != nil {
		return nil
	}
	if limit := segment.GetChild(s, "limit_clause"); limit != nil {
		return &lint.Result{Anchor: limit}
	}
	return nil
}
