package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(TrailingWhitespace)
}

// TrailingWhitespace flags whitespace at the end of a line or file.
var TrailingWhitespace = lint.RuleDef{
	ID:          "LT01",
	Name:        "layout.trailing_whitespace",
	Group:       "layout",
	Description: "Unnecessary trailing whitespace.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlTrailingWhitespace,
	AutoFixable: true,
	Rationale:   "Trailing whitespace is invisible in most editors and shows up as noise in diffs.",
	BadExample:  "SELECT a   \nFROM t",
	GoodExample: "SELECT a\nFROM t",
	Fix:         "Delete the whitespace.",
}

func crawlTrailingWhitespace(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType(segment.TypeWhitespace) || !isLineBreak(ctx.NextRaw()) {
		return nil
	}
	return &lint.Result{
		Anchor: s,
		Fixes:  []segment.Fix{segment.NewDelete(s)},
	}
}
