package layout

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(IndentUnit)
}

// IndentUnit flags space indentation that is not a whole number of
// indent units.
var IndentUnit = lint.RuleDef{
	ID:          "LT03",
	Name:        "layout.indent_unit",
	Group:       "layout",
	Description: "Indentation is not a multiple of the indent unit.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlIndentUnit,
	ConfigKeys:  []string{"tab_space_size"},
	Options:     defaultIndentOptions,
	AutoFixable: true,
	BadExample:  "SELECT\n   a\nFROM t",
	GoodExample: "SELECT\n    a\nFROM t",
	Fix:         "The indent is rounded to the nearest multiple of tab_space_size.",
}

func crawlIndentUnit(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !isIndent(s, ctx.PrevRaw(), ctx.NextRaw()) || strings.Contains(s.Raw(), "\t") {
		return nil
	}
	unit := indentOptions(ctx.Options).TabSpaceSize
	width := len(s.Raw())
	if width%unit == 0 {
		return nil
	}

	res := &lint.Result{
		Anchor:      s,
		Description: fmt.Sprintf("Indentation of %d spaces is not a multiple of %d.", width, unit),
	}
	target := (width + unit/2) / unit * unit
	if target == 0 {
		res.Fixes = []segment.Fix{segment.NewDelete(s)}
	} else if r, ok := s.(*segment.Raw); ok {
		res.Fixes = []segment.Fix{segment.NewEdit(s, r.Edit(strings.Repeat(" ", target)))}
	}
	return res
}
