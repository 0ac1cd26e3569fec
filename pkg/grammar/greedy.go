package grammar

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// =============================================================================
// StartsWith
// =============================================================================

// StartsWithGrammar claims a region that begins with Target.
type StartsWithGrammar struct {
	Target            Matchable
	Terminator        Matchable
	IncludeTerminator bool
}

// StartsWith matches when the first code segment matches target.
func StartsWith(target Matchable) *StartsWithGrammar {
	return &StartsWithGrammar{Target: target}
}

// Until ends the region at the first bracket-balanced match of term.
func (g *StartsWithGrammar) Until(term Matchable) *StartsWithGrammar {
	g.Terminator = term
	return g
}

// IncludingTerminator claims the terminator too.
func (g *StartsWithGrammar) IncludingTerminator() *StartsWithGrammar {
	g.IncludeTerminator = true
	return g
}

// Match claims everything when there is no terminator, otherwise
// everything up to it.
func (g *StartsWithGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	first := leadingNonCode(segs)
	if first == len(segs) {
		return segment.FromUnmatched(segs), nil
	}
	m, err := match(g.Target, segs[first:], ctx)
	if err != nil {
		return segment.MatchResult{}, err
	}
	if !m.HasMatch() {
		return segment.FromUnmatched(segs), nil
	}
	head := segment.Concat(segs[:first], m.Matched)
	if g.Terminator == nil {
		return segment.FromMatched(segment.Concat(head, m.Unmatched)), nil
	}

	f, err := bracketLookAhead(m.Unmatched, []Matchable{g.Terminator}, ctx, true)
	if err != nil {
		return noMatchOnBracketError(err, segs, ctx)
	}
	if !f.ok() {
		return segment.FromMatched(segment.Concat(head, m.Unmatched)), nil
	}
	if g.IncludeTerminator {
		return segment.MatchResult{
			Matched:   segment.Concat(head, f.pre, f.match.Matched),
			Unmatched: f.match.Unmatched,
		}, nil
	}
	return segment.MatchResult{Matched: segment.Concat(head, f.pre), Unmatched: f.match.All()}, nil
}

// Simple is the target's set.
func (g *StartsWithGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	return g.Target.Simple(ctx, crumbs)
}

func (g *StartsWithGrammar) IsOptional() bool { return false }

func (g *StartsWithGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	return g.Target.ExpectedString(r, calledFrom) + ", ..."
}

func (g *StartsWithGrammar) String() string { return fmt.Sprintf("StartsWith(%v)", g.Target) }

// =============================================================================
// GreedyUntil
// =============================================================================

// GreedyUntilGrammar claims everything before the first terminator.
type GreedyUntilGrammar struct {
	Terminators                []Matchable
	EnforceWhitespacePreceding bool
	CodeOnly                   bool
}

// GreedyUntil claims input up to the first bracket-balanced match of one
// of terms, or all of it when none occurs.
func GreedyUntil(terms ...Matchable) *GreedyUntilGrammar {
	return &GreedyUntilGrammar{Terminators: terms, CodeOnly: true}
}

// AfterWhitespace only accepts terminators preceded by whitespace.
func (g *GreedyUntilGrammar) AfterWhitespace() *GreedyUntilGrammar {
	g.EnforceWhitespacePreceding = true
	return g
}

// Match never claims a span without code.
func (g *GreedyUntilGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	offset := 0
	for {
		f, err := bracketLookAhead(segs[offset:], g.Terminators, ctx, g.CodeOnly)
		if err != nil {
			return noMatchOnBracketError(err, segs, ctx)
		}
		if !f.ok() {
			if allNonCode(segs) {
				return segment.FromUnmatched(segs), nil
			}
			return segment.FromMatched(segs), nil
		}
		at := offset + len(f.pre)
		if g.EnforceWhitespacePreceding && !g.precededByWhitespace(segs, at) {
			offset = at + 1
			if offset >= len(segs) {
				return segment.FromMatched(segs), nil
			}
			continue
		}
		pre := segs[:at]
		if allNonCode(pre) {
			return segment.FromUnmatched(segs), nil
		}
		return segment.MatchResult{Matched: pre, Unmatched: segs[at:]}, nil
	}
}

func (g *GreedyUntilGrammar) precededByWhitespace(segs []segment.Segment, at int) bool {
	if !segs[at].IsCode() {
		// Absorbed leading non-code.
		return segs[at].IsWhitespace()
	}
	return at > 0 && segs[at-1].IsWhitespace()
}

func (g *GreedyUntilGrammar) Simple(*segment.ParseContext, []string) ([]string, bool) {
	return nil, false
}

func (g *GreedyUntilGrammar) IsOptional() bool { return false }

func (g *GreedyUntilGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	return "..., !(" + expectedList(g.Terminators, r, calledFrom, " | ") + ")"
}

func (g *GreedyUntilGrammar) String() string { return describe("GreedyUntil", g.Terminators) }

// =============================================================================
// ContainsOnly
// =============================================================================

// ContainsOnlyGrammar matches when every segment matches one of its options
// or has one of its types.
type ContainsOnlyGrammar struct {
	Options  []Matchable
	Types    []string
	CodeOnly bool
}

// ContainsOnly matches input made up entirely of opts.
func ContainsOnly(opts ...Matchable) *ContainsOnlyGrammar {
	return &ContainsOnlyGrammar{Options: opts, CodeOnly: true}
}

// OrTypes also accepts segments of the given types.
func (g *ContainsOnlyGrammar) OrTypes(types ...string) *ContainsOnlyGrammar {
	g.Types = append(g.Types, types...)
	return g
}

func (g *ContainsOnlyGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	var matched []segment.Segment
	rest := segs
next:
	for len(rest) > 0 {
		if g.CodeOnly && !rest[0].IsCode() {
			matched = append(matched, rest[0])
			rest = rest[1:]
			continue
		}
		if rest[0].IsType(g.Types...) {
			matched = append(matched, rest[0])
			rest = rest[1:]
			continue
		}
		for _, opt := range g.Options {
			m, err := match(opt, rest, ctx)
			if err != nil {
				return segment.MatchResult{}, err
			}
			if m.HasMatch() {
				matched = segment.Concat(matched, m.Matched)
				rest = m.Unmatched
				continue next
			}
		}
		return segment.FromUnmatched(segs), nil
	}
	return segment.FromMatched(matched), nil
}

func (g *ContainsOnlyGrammar) Simple(*segment.ParseContext, []string) ([]string, bool) {
	return nil, false
}

func (g *ContainsOnlyGrammar) IsOptional() bool { return false }

func (g *ContainsOnlyGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	parts := append([]string(nil), g.Types...)
	for _, o := range g.Options {
		parts = append(parts, o.ExpectedString(r, calledFrom))
	}
	return "(" + strings.Join(parts, " | ") + ")+"
}

func (g *ContainsOnlyGrammar) String() string { return describe("ContainsOnly", g.Options) }
