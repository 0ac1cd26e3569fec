package ambiguous

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(SetColumnCount)
}

// SetColumnCount flags set operations whose branches select a different
// number of columns. Branches with a wildcard are not counted.
var SetColumnCount = lint.RuleDef{
	ID:          "AM04",
	Name:        "ambiguous.column_count",
	Group:       "ambiguous",
	Description: "Set operation branches return different numbers of columns.",
	Severity:    core.SeverityError,
	Crawl:       crawlSetColumnCount,
	BadExample:  "SELECT a, b FROM t UNION ALL SELECT a FROM u",
	GoodExample: "SELECT a, b FROM t UNION ALL SELECT a, b FROM u",
}

func crawlSetColumnCount(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("set_expression") {
		return nil
	}
	branches := ast.SetBranches(s)
	want := -1
	for _, b := range branches {
		elems := ast.SelectElements(b)
		if ast.HasWildcard(elems) {
			return nil
		}
		if want < 0 {
			want = len(elems)
			continue
		}
		if len(elems) != want {
			return &lint.Result{
				Anchor:      b,
				Description: fmt.Sprintf("Set operation branch returns %d columns, expected %d.", len(elems), want),
			}
		}
	}
	return nil
}
