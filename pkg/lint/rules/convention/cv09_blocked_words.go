package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func init() {
	lint.Register(BlockedWords)
}

// BlockedWordsOptions configures CV09. Entries may hold several words
// separated by commas.
type BlockedWordsOptions struct {
	BlockedWords []string `mapstructure:"blocked_words"`
}

func (o *BlockedWordsOptions) words() map[string]bool {
	out := make(map[string]bool)
	for _, entry := range o.BlockedWords {
		for _, w := range strings.Split(entry, ",") {
			if w = strings.TrimSpace(w); w != "" {
				out[strings.ToLower(w)] = true
			}
		}
	}
	return out
}

// BlockedWords flags keywords and identifiers on the blocked list.
var BlockedWords = lint.RuleDef{
	ID:          "CV09",
	Name:        "convention.blocked_words",
	Group:       "convention",
	Description: "Use of blocked words.",
	Severity:    core.SeverityWarning,
	Crawl:       crawlBlockedWords,
	ConfigKeys:  []string{"blocked_words"},
	Options: func() any {
		return &BlockedWordsOptions{BlockedWords: []string{"delete", "drop", "truncate"}}
	},
	Rationale:   "Some statements should never reach a shared repository of queries.",
	BadExample:  "DROP TABLE users",
	GoodExample: "SELECT id FROM users",
}

func crawlBlockedWords(ctx *lint.RuleContext) *lint.Result {
	s := ctx.Segment
	if len(s.Segments()) > 0 || !s.IsCode() || s.IsType("literal") {
		return nil
	}
	blocked, ok := ctx.Memory.(map[string]bool)
	if !ok {
		o, _ := ctx.Options.(*BlockedWordsOptions)
		if o == nil {
			return nil
		}
		blocked = o.words()
	}
	word := strings.ToLower(strings.Trim(s.Raw(), "`\""))
	if !blocked[word] {
		return &lint.Result{Memory: blocked}
	}
	return &lint.Result{
		Anchor:      s,
		Memory:      blocked,
		Description: fmt.Sprintf("Use of blocked word %q.", s.Raw()),
	}
}
