// Package grammar is the parser combinator library dialects are written
// in. Every grammar implements segment.Matchable: it claims a prefix of a
// segment slice and reports the rest as unmatched. Grammars refer to other
// dialect entries by name through Ref, so mutually recursive productions
// need no forward declarations.
//
// Unless CodeOnly is switched off, grammars treat non-code segments
// (whitespace, newlines, comments) as transparent: they are absorbed at
// the edges of a match instead of being matched by elements.
package grammar

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Matchable is re-exported for dialect authors.
type Matchable = segment.Matchable

// match runs m through the shared match wrapper.
func match(m Matchable, segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	return segment.MatchWith(m, segs, ctx)
}

// codeOnlySensitiveMatch matches m against segs with leading and trailing
// non-code stripped. Leading non-code joins a positive match; trailing
// non-code joins only a complete one.
func codeOnlySensitiveMatch(segs []segment.Segment, m Matchable, ctx *segment.ParseContext, codeOnly bool) (segment.MatchResult, error) {
	if !codeOnly {
		return match(m, segs, ctx)
	}
	pre, inner, post := trimNonCode(segs)
	if len(inner) == 0 {
		return segment.FromUnmatched(segs), nil
	}
	res, err := match(m, inner, ctx)
	if err != nil {
		return segment.MatchResult{}, err
	}
	switch {
	case res.IsComplete():
		return segment.FromMatched(segment.Concat(pre, res.Matched, post)), nil
	case res.HasMatch():
		return segment.MatchResult{
			Matched:   segment.Concat(pre, res.Matched),
			Unmatched: segment.Concat(res.Unmatched, post),
		}, nil
	default:
		return segment.FromUnmatched(segs), nil
	}
}

// longestMatch returns the longest match of any of matchers at the start
// of segs and the index of the matcher that produced it. A complete match
// wins immediately; ties go to the earlier matcher.
func longestMatch(segs []segment.Segment, matchers []Matchable, ctx *segment.ParseContext, codeOnly bool) (segment.MatchResult, int, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), -1, nil
	}
	best, bestIdx := segment.FromUnmatched(segs), -1
	for i, m := range matchers {
		res, err := codeOnlySensitiveMatch(segs, m, ctx, codeOnly)
		if err != nil {
			return segment.MatchResult{}, -1, err
		}
		if res.IsComplete() {
			return res, i, nil
		}
		if res.HasMatch() && res.Len() > best.Len() {
			best, bestIdx = res, i
		}
	}
	return best, bestIdx, nil
}

// trimNonCode splits segs into leading non-code, the code-bounded middle
// and trailing non-code.
func trimNonCode(segs []segment.Segment) (pre, mid, post []segment.Segment) {
	start := 0
	for start < len(segs) && !segs[start].IsCode() {
		start++
	}
	end := len(segs)
	for end > start && !segs[end-1].IsCode() {
		end--
	}
	return segs[:start], segs[start:end], segs[end:]
}

func leadingNonCode(segs []segment.Segment) int {
	n := 0
	for n < len(segs) && !segs[n].IsCode() {
		n++
	}
	return n
}

func allNonCode(segs []segment.Segment) bool {
	return leadingNonCode(segs) == len(segs)
}

// absorbTrailing moves the non-code at the head of the remainder into the
// matched part.
func absorbTrailing(m segment.MatchResult) segment.MatchResult {
	n := leadingNonCode(m.Unmatched)
	if n == 0 {
		return m
	}
	return segment.MatchResult{
		Matched:   segment.Concat(m.Matched, m.Unmatched[:n]),
		Unmatched: m.Unmatched[n:],
	}
}

// endOf is the position just past s.
func endOf(s segment.Segment) token.Position {
	return s.Pos().AdvanceBy(s.Raw(), 0)
}

func expectedList(elems []Matchable, r segment.Resolver, calledFrom map[string]bool, sep string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.ExpectedString(r, calledFrom)
	}
	return strings.Join(parts, sep)
}

func describe(name string, elems []Matchable) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = fmt.Sprint(e)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// unionSimple returns the union of the simple sets of elems, or false if
// any of them is not simple.
func unionSimple(elems []Matchable, ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	var out []string
	for _, e := range elems {
		s, ok := e.Simple(ctx, crumbs)
		if !ok {
			return nil, false
		}
		out = append(out, s...)
	}
	return out, len(out) > 0
}

// =============================================================================
// Anything / Nothing / Opt
// =============================================================================

// AnythingGrammar claims all of its input.
type AnythingGrammar struct{}

// Anything matches the whole input.
func Anything() *AnythingGrammar { return &AnythingGrammar{} }

func (*AnythingGrammar) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	return segment.FromMatched(segs), nil
}

func (*AnythingGrammar) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (*AnythingGrammar) IsOptional() bool                                        { return false }
func (*AnythingGrammar) String() string                                          { return "Anything()" }

func (*AnythingGrammar) ExpectedString(segment.Resolver, map[string]bool) string {
	return "<anything>"
}

// NothingGrammar never claims anything.
type NothingGrammar struct{}

// Nothing matches nothing and is optional.
func Nothing() *NothingGrammar { return &NothingGrammar{} }

func (*NothingGrammar) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	return segment.FromUnmatched(segs), nil
}

func (*NothingGrammar) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (*NothingGrammar) IsOptional() bool                                        { return true }
func (*NothingGrammar) String() string                                          { return "Nothing()" }

func (*NothingGrammar) ExpectedString(segment.Resolver, map[string]bool) string {
	return "<nothing>"
}

// OptionalGrammar marks an element a sequence may skip.
type OptionalGrammar struct {
	Matchable
}

// Opt makes m optional.
func Opt(m Matchable) *OptionalGrammar { return &OptionalGrammar{Matchable: m} }

func (*OptionalGrammar) IsOptional() bool { return true }

func (o *OptionalGrammar) String() string { return fmt.Sprintf("Opt(%v)", o.Matchable) }

// =============================================================================
// Indent / Dedent
// =============================================================================

// MetaGrammar places a zero-width indentation hint when it appears as an
// element of a Sequence or Bracketed. It matches nothing on its own.
type MetaGrammar struct {
	indent int
}

// Indentation hints.
var (
	Indent = &MetaGrammar{indent: 1}
	Dedent = &MetaGrammar{indent: -1}
)

func (m *MetaGrammar) segmentAt(pos token.Position) segment.Segment {
	if m.indent > 0 {
		return segment.NewIndent(pos)
	}
	return segment.NewDedent(pos)
}

func (*MetaGrammar) Match(segs []segment.Segment, _ *segment.ParseContext) (segment.MatchResult, error) {
	return segment.FromUnmatched(segs), nil
}

func (*MetaGrammar) Simple(*segment.ParseContext, []string) ([]string, bool) { return nil, false }
func (*MetaGrammar) IsOptional() bool                                        { return true }
func (*MetaGrammar) ExpectedString(segment.Resolver, map[string]bool) string { return "" }

func (m *MetaGrammar) String() string {
	if m.indent > 0 {
		return "Indent"
	}
	return "Dedent"
}

func isMeta(m Matchable) bool {
	_, ok := m.(*MetaGrammar)
	return ok
}
