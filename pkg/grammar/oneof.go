package grammar

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Mode selects how OneOf picks between options that match.
type Mode int

const (
	// Longest picks the option claiming the most segments.
	Longest Mode = iota
	// First picks the first option that matches completely. Without one,
	// the longest partial match stands.
	First
)

// prune drops the simple options none of whose literals occur in segs.
func prune(opts []Matchable, segs []segment.Segment, ctx *segment.ParseContext) []Matchable {
	var present map[string]bool
	out := make([]Matchable, 0, len(opts))
	for _, o := range opts {
		lits, ok := o.Simple(ctx, nil)
		if !ok {
			out = append(out, o)
			continue
		}
		if present == nil {
			present = ctx.UpperRaws(segs)
		}
		for _, l := range lits {
			if present[l] {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// =============================================================================
// OneOf
// =============================================================================

// OneOfGrammar matches exactly one of its options.
type OneOfGrammar struct {
	Options  []Matchable
	Mode     Mode
	CodeOnly bool
}

// OneOf matches one of opts, preferring the longest match.
func OneOf(opts ...Matchable) *OneOfGrammar {
	return &OneOfGrammar{Options: opts, CodeOnly: true}
}

// First switches to first-match mode.
func (g *OneOfGrammar) First() *OneOfGrammar {
	g.Mode = First
	return g
}

// WithCodeOnly sets whether non-code is transparent.
func (g *OneOfGrammar) WithCodeOnly(codeOnly bool) *OneOfGrammar {
	g.CodeOnly = codeOnly
	return g
}

func (g *OneOfGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	opts := prune(g.Options, segs, ctx)
	if len(opts) == 0 {
		return segment.FromUnmatched(segs), nil
	}

	best, err := g.pick(segs, opts, ctx)
	if err != nil || best.HasMatch() {
		return best, err
	}

	// Last ditch: retry past any leading non-code.
	if !g.CodeOnly {
		return segment.FromUnmatched(segs), nil
	}
	lead := leadingNonCode(segs)
	if lead == 0 || lead == len(segs) {
		return segment.FromUnmatched(segs), nil
	}
	best, err = g.pick(segs[lead:], opts, ctx)
	if err != nil {
		return segment.MatchResult{}, err
	}
	if !best.HasMatch() {
		return segment.FromUnmatched(segs), nil
	}
	return segment.MatchResult{Matched: segment.Concat(segs[:lead], best.Matched), Unmatched: best.Unmatched}, nil
}

func (g *OneOfGrammar) pick(segs []segment.Segment, opts []Matchable, ctx *segment.ParseContext) (segment.MatchResult, error) {
	best := segment.FromUnmatched(segs)
	for _, opt := range opts {
		m, err := match(opt, segs, ctx)
		if err != nil {
			return segment.MatchResult{}, err
		}
		if m.IsComplete() {
			return m, nil
		}
		if !m.HasMatch() {
			continue
		}
		if g.CodeOnly {
			m = absorbTrailing(m)
		}
		if m.Len() > best.Len() {
			best = m
		}
	}
	return best, nil
}

// Simple is the union of the options' sets when every option is simple.
func (g *OneOfGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	return unionSimple(g.Options, ctx, crumbs)
}

func (g *OneOfGrammar) IsOptional() bool { return false }

func (g *OneOfGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	return expectedList(g.Options, r, calledFrom, " | ")
}

func (g *OneOfGrammar) String() string { return describe("OneOf", g.Options) }

// =============================================================================
// AnyNumberOf
// =============================================================================

// AnyNumberOfGrammar matches its options repeatedly.
type AnyNumberOfGrammar struct {
	Options  []Matchable
	MinTimes int
	MaxTimes int // 0 is unbounded
	CodeOnly bool
}

// AnyNumberOf matches any of opts zero or more times.
func AnyNumberOf(opts ...Matchable) *AnyNumberOfGrammar {
	return &AnyNumberOfGrammar{Options: opts, CodeOnly: true}
}

// AtLeast sets the minimum number of repetitions.
func (g *AnyNumberOfGrammar) AtLeast(n int) *AnyNumberOfGrammar {
	g.MinTimes = n
	return g
}

// AtMost sets the maximum number of repetitions.
func (g *AnyNumberOfGrammar) AtMost(n int) *AnyNumberOfGrammar {
	g.MaxTimes = n
	return g
}

// WithCodeOnly sets whether non-code is transparent.
func (g *AnyNumberOfGrammar) WithCodeOnly(codeOnly bool) *AnyNumberOfGrammar {
	g.CodeOnly = codeOnly
	return g
}

// Match is greedy: each round the first option that matches is taken, and
// the loop ends when none does or MaxTimes is reached. Non-code between
// repetitions is absorbed. A run without a single repetition is no match.
func (g *AnyNumberOfGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	opts := prune(g.Options, segs, ctx)

	var matched []segment.Segment
	rest := segs
	n := 0
loop:
	for {
		if g.MaxTimes > 0 && n >= g.MaxTimes {
			break
		}
		if len(rest) == 0 {
			break
		}
		if g.CodeOnly && !rest[0].IsCode() {
			matched = append(matched, rest[0])
			rest = rest[1:]
			continue
		}
		for _, opt := range opts {
			m, err := match(opt, rest, ctx)
			if err != nil {
				return segment.MatchResult{}, err
			}
			if m.HasMatch() {
				matched = segment.Concat(matched, m.Matched)
				rest = m.Unmatched
				n++
				continue loop
			}
		}
		break
	}

	if n == 0 || n < g.MinTimes {
		return segment.FromUnmatched(segs), nil
	}
	return segment.MatchResult{Matched: matched, Unmatched: rest}, nil
}

// Simple is the union of the options' sets when every option is simple.
func (g *AnyNumberOfGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	return unionSimple(g.Options, ctx, crumbs)
}

func (g *AnyNumberOfGrammar) IsOptional() bool { return g.MinTimes == 0 }

func (g *AnyNumberOfGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	s := "(" + expectedList(g.Options, r, calledFrom, " | ") + ")"
	if g.MinTimes > 0 {
		return fmt.Sprintf("%s{%d,}", s, g.MinTimes)
	}
	return s + "*"
}

func (g *AnyNumberOfGrammar) String() string { return describe("AnyNumberOf", g.Options) }
