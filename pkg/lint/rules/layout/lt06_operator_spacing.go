package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(OperatorSpacing)
}

// OperatorSpacing flags binary and comparison operators that are not
// surrounded by single spaces. Signed numbers such as -1 are not
// operators. A line break on either side is accepted.
var OperatorSpacing = lint.RuleDef{
	ID:          "LT06",
	Name:        "layout.operator_spacing",
	Group:       "layout",
	Description: "Operators should be surrounded by single spaces.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlOperatorSpacing,
	AutoFixable: true,
	BadExample:  "SELECT a+b, c  = d FROM t",
	GoodExample: "SELECT a + b, c = d FROM t",
}

func crawlOperatorSpacing(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if len(s.Segments()) > 0 || !s.IsType("binary_operator", "comparison_operator") {
		return nil
	}
	if p := ctx.Parent(); p != nil && p.IsType("numeric_literal") {
		return nil
	}

	var fixes []segment.Fix
	if prev := ctx.PrevRaw(); prev != nil {
		switch {
		case prev.IsCode():
			fixes = append(fixes, segment.NewCreate(s, segment.NewWhitespace(" ", s.Pos())))
		case prev.IsType(segment.TypeWhitespace) && prev.Raw() != " " && !startsLine(ctx.RawStack):
			fixes = append(fixes, segment.NewEdit(prev, segment.NewWhitespace(" ", prev.Pos())))
		}
	}
	if next := ctx.NextRaw(); next != nil {
		switch {
		case next.IsCode():
			fixes = append(fixes, segment.NewCreate(next, segment.NewWhitespace(" ", next.Pos())))
		case next.IsType(segment.TypeWhitespace) && next.Raw() != " " && !endsLine(ctx.RawPost):
			fixes = append(fixes, segment.NewEdit(next, segment.NewWhitespace(" ", next.Pos())))
		}
	}
	if len(fixes) == 0 {
		return nil
	}
	return &lint.Result{Anchor: s, Fixes: fixes}
}

// startsLine reports whether the last raw of before is whitespace opening
// a line.
func startsLine(before []segment.Segment) bool {
	return len(before) < 2 || before[len(before)-2].IsType(segment.TypeNewline)
}

// endsLine reports whether the first raw of after is whitespace closing
// a line.
func endsLine(after []segment.Segment) bool {
	return len(after) < 2 || isLineBreak(after[1]) || after[1].IsComment()
}
