package layout

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(FinalNewline)
}

// FinalNewline checks that a file ends with exactly one newline.
var FinalNewline = lint.RuleDef{
	ID:          "LT08",
	Name:        "layout.final_newline",
	Group:       "layout",
	Description: "Files must end with a single trailing newline.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlFinalNewline,
	AutoFixable: true,
	Rationale:   "Tools that concatenate or diff files expect the last line to be terminated.",
	BadExample:  "SELECT a FROM t",
	GoodExample: "SELECT a FROM t\n",
}

func crawlFinalNewline(ctx *lint.RuleContext) *lint.Result {
	if ctx.Parent() != nil {
		return nil
	}
	raws := ctx.RawPost
	if len(ctx.Segment.Segments()) == 0 {
		raws = append([]segment.Segment{ctx.Segment}, raws...)
	}

	last := -1
	for i, s := range raws {
		if s.IsCode() || s.IsComment() {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	tail := raws[last+1:]

	if len(tail) == 0 {
		end := raws[last]
		return &lint.Result{
			Anchor:      end,
			Description: "Files must end with a trailing newline.",
			Fixes:       []segment.Fix{segment.NewEdit(end, end, segment.NewNewline(end.Pos()))},
		}
	}

	var newlines []int
	for i, s := range tail {
		if s.IsType(segment.TypeNewline) {
			newlines = append(newlines, i)
		}
	}
	switch {
	case len(newlines) == 0:
		fixes := []segment.Fix{segment.NewEdit(tail[0], segment.NewNewline(tail[0].Pos()))}
		for _, s := range tail[1:] {
			fixes = append(fixes, segment.NewDelete(s))
		}
		return &lint.Result{Anchor: tail[0], Description: "Files must end with a trailing newline.", Fixes: fixes}
	case len(newlines) == 1 && newlines[0] == len(tail)-1 && len(tail) == 1:
		return nil
	default:
		// Keep the first newline, drop everything around it.
		var fixes []segment.Fix
		for i, s := range tail {
			if i != newlines[0] {
				fixes = append(fixes, segment.NewDelete(s))
			}
		}
		return &lint.Result{
			Anchor:      tail[0],
			Description: "Too many trailing newlines at the end of file.",
			Fixes:       fixes,
		}
	}
}
