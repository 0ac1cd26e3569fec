package aliasing

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(SelfAlias)
}

// SelfAlias flags a column aliased to the name it already has.
var SelfAlias = lint.RuleDef{
	ID:          "AL09",
	Name:        "aliasing.self_alias",
	Group:       "aliasing",
	Description: "Column aliased to its own name.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlSelfAlias,
	AutoFixable: true,
	BadExample:  "SELECT a AS a, t.b AS b FROM t",
	GoodExample: "SELECT a, t.b FROM t",
	Fix:         "Remove the alias.",
}

func crawlSelfAlias(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("select_clause_element") {
		return nil
	}
	column := segment.GetChild(s, "column_reference")
	alias := segment.GetChild(s, "alias_expression")
	if column == nil || alias == nil {
		return nil
	}
	name := columnName(column)
	if name == "" || !strings.EqualFold(name, ast.AliasName(alias)) {
		return nil
	}

	// Drop the alias and the whitespace in front of it, which may sit
	// inside the column reference.
	fixes := []segment.Fix{segment.NewDelete(alias)}
	leaves := segment.RawSegments(s)
	first := segment.RawSegments(alias)
	for i, leaf := range leaves {
		if len(first) == 0 || leaf.ID() != first[0].ID() {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if leaves[j].IsMeta() {
				continue
			}
			if !leaves[j].IsType(segment.TypeWhitespace) {
				break
			}
			fixes = append(fixes, segment.NewDelete(leaves[j]))
		}
		break
	}
	return &lint.Result{Anchor: alias, Fixes: fixes}
}

// columnName returns the last identifier of a column reference.
func columnName(column segment.Segment) string {
	ids := segment.GetChildren(column, "identifier")
	if len(ids) == 0 {
		return ""
	}
	return strings.Trim(ids[len(ids)-1].Raw(), "`\"")
}
