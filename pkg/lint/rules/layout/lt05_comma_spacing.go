package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(SpaceBeforeComma)
	lint.Register(SpaceAfterComma)
}

// SpaceBeforeComma flags whitespace between an element and its comma.
// Leading commas at the start of a line are left alone.
var SpaceBeforeComma = lint.RuleDef{
	ID:          "LT05",
	Name:        "layout.space_before_comma",
	Group:       "layout",
	Description: "Unexpected whitespace before comma.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlSpaceBeforeComma,
	AutoFixable: true,
	BadExample:  "SELECT a , b FROM t",
	GoodExample: "SELECT a, b FROM t",
}

// SpaceAfterComma flags a comma not followed by a single space, unless
// the line ends after it.
var SpaceAfterComma = lint.RuleDef{
	ID:          "LT07",
	Name:        "layout.space_after_comma",
	Group:       "layout",
	Description: "Comma should be followed by a single space.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlSpaceAfterComma,
	AutoFixable: true,
	BadExample:  "SELECT a,b,  c FROM t",
	GoodExample: "SELECT a, b, c FROM t",
}

func isComma(s segment.Segment) bool {
	return s != nil && s.IsType("comma")
}

func crawlSpaceBeforeComma(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType(segment.TypeWhitespace) || !isComma(ctx.NextRaw()) || ctx.AtLineStart() {
		return nil
	}
	return &lint.Result{
		Anchor: s,
		Fixes:  []segment.Fix{segment.NewDelete(s)},
	}
}

func crawlSpaceAfterComma(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !isComma(s) {
		return nil
	}
	next := ctx.NextRaw()
	switch {
	case next == nil || next.IsType(segment.TypeNewline) || next.IsComment():
		return nil
	case next.IsType(segment.TypeWhitespace):
		if next.Raw() == " " {
			return nil
		}
		// Trailing whitespace is reported elsewhere.
		if len(ctx.RawPost) < 2 || isLineBreak(ctx.RawPost[1]) || ctx.RawPost[1].IsComment() {
			return nil
		}
		return &lint.Result{
			Anchor:      s,
			Description: "Comma should be followed by a single space, not several.",
			Fixes:       []segment.Fix{segment.NewEdit(next, segment.NewWhitespace(" ", next.Pos()))},
		}
	default:
		return &lint.Result{
			Anchor:      s,
			Description: "Missing whitespace after comma.",
			Fixes:       []segment.Fix{segment.NewCreate(next, segment.NewWhitespace(" ", next.Pos()))},
		}
	}
}
