package convention

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(NotEqual)
}

// Not-equal styles.
const (
	StyleConsistent = "consistent"
	StyleCStyle     = "c_style"
	StyleANSI       = "ansi"
)

var notEqualOperators = map[string]string{
	StyleCStyle: "!=",
	StyleANSI:   "<>",
}

// NotEqualOptions configures CV01.
type NotEqualOptions struct {
	PreferredNotEqualStyle string `mapstructure:"preferred_not_equal_style"`
}

// NotEqual flags not-equal operators written differently from the
// preferred style. Under the consistent style the first one in the file
// wins.
var NotEqual = lint.RuleDef{
	ID:          "CV01",
	Name:        "convention.not_equal",
	Group:       "convention",
	Description: "Use a consistent not-equal operator.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlNotEqual,
	ConfigKeys:  []string{"preferred_not_equal_style"},
	Options: func() any {
		return &NotEqualOptions{PreferredNotEqualStyle: StyleConsistent}
	},
	AutoFixable: true,
	BadExample:  "SELECT a FROM t WHERE b != 1 AND c <> 2",
	GoodExample: "SELECT a FROM t WHERE b != 1 AND c != 2",
}

func crawlNotEqual(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !s.IsType("comparison_operator") || len(s.Segments()) > 0 {
		return nil
	}
	style := ""
	for name, op := range notEqualOperators {
		if s.Raw() == op {
			style = name
		}
	}
	if style == "" {
		return nil
	}

	preferred := StyleConsistent
	if o, ok := ctx.Options.(*NotEqualOptions); ok && o.PreferredNotEqualStyle != "" {
		preferred = o.PreferredNotEqualStyle
	}
	if preferred == StyleConsistent {
		first, _ := ctx.Memory.(string)
		if first == "" {
			return &lint.Result{Memory: style}
		}
		preferred = first
	}
	want, ok := notEqualOperators[preferred]
	if !ok || style == preferred {
		return nil
	}

	res := &lint.Result{
		Anchor:      s,
		Description: fmt.Sprintf("Use %s instead of %s for not equal.", want, s.Raw()),
	}
	if r, ok := s.(*segment.Raw); ok {
		res.Fixes = []segment.Fix{segment.NewEdit(s, r.Edit(want))}
	}
	return res
}
