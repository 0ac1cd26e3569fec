package layout

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(IndentStyle)
}

// IndentStyle flags lines indented with tabs in a file indented with
// spaces, and the other way round. The first indented line sets the
// style.
var IndentStyle = lint.RuleDef{
	ID:          "LT04",
	Name:        "layout.indent_style",
	Group:       "layout",
	Description: "Inconsistent indentation style across the file.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlIndentStyle,
	Rationale:   "A file indented one way reads the same in every editor.",
	BadExample:  "SELECT\n    a,\n\tb\nFROM t",
	GoodExample: "SELECT\n    a,\n    b\nFROM t",
}

const (
	styleSpaces = "spaces"
	styleTabs   = "tabs"
)

func crawlIndentStyle(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !isIndent(s, ctx.PrevRaw(), ctx.NextRaw()) {
		return nil
	}
	style := styleSpaces
	if strings.HasPrefix(s.Raw(), "\t") {
		style = styleTabs
	}
	first, _ := ctx.Memory.(string)
	if first == "" {
		return &lint.Result{Memory: style}
	}
	if style == first {
		return nil
	}
	return &lint.Result{
		Anchor:      s,
		Description: fmt.Sprintf("Line is indented with %s but the file is indented with %s.", style, first),
	}
}
