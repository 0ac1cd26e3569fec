package capitalisation

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func init() {
	lint.Register(KeywordCase)
}

// Capitalisation policies.
const (
	PolicyConsistent = "consistent"
	PolicyUpper      = "upper"
	PolicyLower      = "lower"
	PolicyCapitalise = "capitalise"
)

// KeywordCaseOptions configures CP01.
type KeywordCaseOptions struct {
	CapitalisationPolicy string `mapstructure:"capitalisation_policy"`
}

// KeywordCase flags keywords whose case differs from the policy. Under
// the consistent policy the first keyword sets the case for the file.
var KeywordCase = lint.RuleDef{
	ID:          "CP01",
	Name:        "capitalisation.keywords",
	Group:       "capitalisation",
	Description: "Inconsistent capitalisation of keywords.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlKeywordCase,
	ConfigKeys:  []string{"capitalisation_policy"},
	Options: func() any {
		return &KeywordCaseOptions{CapitalisationPolicy: PolicyConsistent}
	},
	AutoFixable: true,
	Rationale:   "Keywords in one case stand apart from identifiers and keep diffs small.",
	BadExample:  "SELECT a from t",
	GoodExample: "SELECT a FROM t",
	Fix:         "Recase the keyword to the configured policy, or to the case of the first keyword in the file.",
}

var casers = map[string]cases.Caser{
	PolicyUpper:      cases.Upper(language.Und),
	PolicyLower:      cases.Lower(language.Und),
	PolicyCapitalise: cases.Title(language.English),
}

var policyNames = map[string]string{
	PolicyUpper:      "upper case",
	PolicyLower:      "lower case",
	PolicyCapitalise: "capitalised",
}

// styleOf returns the policy raw already satisfies, or "" when its case
// is mixed.
func styleOf(raw string) string {
	for _, policy := range []string{PolicyUpper, PolicyLower, PolicyCapitalise} {
		if casers[policy].String(raw) == raw {
			return policy
		}
	}
	return ""
}

func crawlKeywordCase(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if !isWordKeyword(s) {
		return nil
	}
	policy := PolicyConsistent
	if o, ok := ctx.Options.(*KeywordCaseOptions); ok && o.CapitalisationPolicy != "" {
		policy = o.CapitalisationPolicy
	}

	raw := s.Raw()
	style := styleOf(raw)
	if policy == PolicyConsistent {
		first, _ := ctx.Memory.(string)
		if first == "" {
			if style == "" {
				return nil
			}
			return &lint.Result{Memory: style}
		}
		policy = first
	}
	caser, ok := casers[policy]
	if !ok || style == policy {
		return nil
	}

	want := caser.String(raw)
	res := &lint.Result{
		Anchor:      s,
		Description: fmt.Sprintf("Keywords must be %s: %s should be %s.", policyNames[policy], raw, want),
	}
	if r, ok := s.(*segment.Raw); ok {
		res.Fixes = []segment.Fix{segment.NewEdit(s, r.Edit(want))}
	}
	return res
}

func isWordKeyword(s segment.Segment) bool {
	if len(s.Segments()) > 0 {
		return false
	}
	return ast.IsKeyword(s, s.Raw())
}
