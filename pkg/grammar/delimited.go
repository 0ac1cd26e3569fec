package grammar

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// DelimitedGrammar matches a list of items separated by a delimiter. Each
// item matches one of Elements.
type DelimitedGrammar struct {
	Elements      []Matchable
	Delimiter     Matchable
	Terminator    Matchable
	MinDelimiters int
	AllowTrailing bool
	CodeOnly      bool
}

// Delimited matches items of elems separated by delimiter.
func Delimited(delimiter Matchable, elems ...Matchable) *DelimitedGrammar {
	return &DelimitedGrammar{Elements: elems, Delimiter: delimiter, CodeOnly: true}
}

// Until stops the list at term, which is left unmatched.
func (g *DelimitedGrammar) Until(term Matchable) *DelimitedGrammar {
	g.Terminator = term
	return g
}

// AtLeast requires n delimiters.
func (g *DelimitedGrammar) AtLeast(n int) *DelimitedGrammar {
	g.MinDelimiters = n
	return g
}

// Trailing accepts a delimiter after the last item.
func (g *DelimitedGrammar) Trailing() *DelimitedGrammar {
	g.AllowTrailing = true
	return g
}

// WithCodeOnly sets whether non-code is transparent.
func (g *DelimitedGrammar) WithCodeOnly(codeOnly bool) *DelimitedGrammar {
	g.CodeOnly = codeOnly
	return g
}

func (g *DelimitedGrammar) enoughDelimiters(n int) bool {
	return n >= g.MinDelimiters
}

// Match repeatedly looks ahead, bracket sensitively, for the next delimiter
// or terminator. The span before it must match an element completely. A
// terminator ends the list and stays unmatched. When neither is found the
// remainder is matched as a final item, completely or partially.
func (g *DelimitedGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	seekers := []Matchable{g.Delimiter}
	if g.Terminator != nil {
		seekers = append(seekers, g.Terminator)
	}

	var matched []segment.Segment
	buf := segs
	delimiters := 0
	for {
		if len(buf) == 0 || (g.CodeOnly && allNonCode(buf)) {
			// Input ran out straight after a delimiter.
			if len(matched) > 0 && g.AllowTrailing && g.enoughDelimiters(delimiters) {
				return segment.FromMatched(segment.Concat(matched, buf)), nil
			}
			return segment.FromUnmatched(segs), nil
		}

		f, err := bracketLookAhead(buf, seekers, ctx, false)
		if err != nil {
			return noMatchOnBracketError(err, segs, ctx)
		}

		if !f.ok() {
			if !g.enoughDelimiters(delimiters) {
				return segment.FromUnmatched(segs), nil
			}
			last, _, err := longestMatch(buf, g.Elements, ctx, g.CodeOnly)
			if err != nil {
				return segment.MatchResult{}, err
			}
			if last.HasMatch() {
				return segment.MatchResult{Matched: segment.Concat(matched, last.Matched), Unmatched: last.Unmatched}, nil
			}
			if len(matched) == 0 {
				if allNonCode(buf) {
					return segment.FromMatched(buf), nil
				}
				return segment.FromUnmatched(segs), nil
			}
			if g.AllowTrailing {
				if allNonCode(buf) {
					return segment.FromMatched(segment.Concat(matched, buf)), nil
				}
				return segment.MatchResult{Matched: matched, Unmatched: buf}, nil
			}
			return segment.FromUnmatched(segs), nil
		}

		if len(f.pre) == 0 {
			return segment.FromUnmatched(segs), nil
		}
		item, err := g.completeItem(f.pre, ctx)
		if err != nil {
			return segment.MatchResult{}, err
		}
		if !item.IsComplete() {
			return segment.FromUnmatched(segs), nil
		}
		matched = segment.Concat(matched, item.Matched)

		if f.idx == 0 {
			delimiters++
			matched = segment.Concat(matched, f.match.Matched)
			buf = f.match.Unmatched
			continue
		}
		if !g.enoughDelimiters(delimiters) {
			return segment.FromUnmatched(segs), nil
		}
		return segment.MatchResult{Matched: matched, Unmatched: f.match.All()}, nil
	}
}

// completeItem returns the first complete match of an element over segs.
func (g *DelimitedGrammar) completeItem(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	for _, elem := range prune(g.Elements, segs, ctx) {
		m, err := codeOnlySensitiveMatch(segs, elem, ctx, g.CodeOnly)
		if err != nil {
			return segment.MatchResult{}, err
		}
		if m.IsComplete() {
			return m, nil
		}
	}
	return segment.FromUnmatched(segs), nil
}

// Simple is the union of the elements' sets.
func (g *DelimitedGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	return unionSimple(g.Elements, ctx, crumbs)
}

func (g *DelimitedGrammar) IsOptional() bool { return false }

func (g *DelimitedGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	sep := fmt.Sprintf(" %s ", g.Delimiter.ExpectedString(r, calledFrom))
	return expectedList(g.Elements, r, calledFrom, sep)
}

func (g *DelimitedGrammar) String() string {
	return fmt.Sprintf("Delimited(%v; %v)", g.Delimiter, describe("", g.Elements))
}
