package layout

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(MixedIndentation)
}

// MixedIndentation flags indentation mixing tabs and spaces.
var MixedIndentation = lint.RuleDef{
	ID:          "LT02",
	Name:        "layout.mixed_indentation",
	Group:       "layout",
	Description: "Mixed tabs and spaces in indentation.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlMixedIndentation,
	ConfigKeys:  []string{"tab_space_size"},
	Options:     defaultIndentOptions,
	AutoFixable: true,
	Rationale:   "Tabs render at different widths, so mixed indentation lines up in one editor and not in the next.",
	BadExample:  "SELECT\n\t  a\nFROM t",
	GoodExample: "SELECT\n      a\nFROM t",
	Fix:         "Each tab is replaced with tab_space_size spaces.",
}

func crawlMixedIndentation(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !isIndent(s, ctx.PrevRaw(), ctx.NextRaw()) {
		return nil
	}
	raw := s.Raw()
	if !strings.Contains(raw, "\t") || !strings.Contains(raw, " ") {
		return nil
	}
	r, ok := s.(*segment.Raw)
	if !ok {
		return &lint.Result{Anchor: s}
	}
	spaces := strings.ReplaceAll(raw, "\t", strings.Repeat(" ", indentOptions(ctx.Options).TabSpaceSize))
	return &lint.Result{
		Anchor: s,
		Fixes:  []segment.Fix{segment.NewEdit(s, r.Edit(spaces))},
	}
}
