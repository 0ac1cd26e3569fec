package grammar

import (
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// SequenceGrammar matches its elements one after another.
type SequenceGrammar struct {
	Elements []Matchable
	CodeOnly bool
}

// Sequence matches elems in order. Optional elements may be skipped;
// Indent and Dedent place zero-width hints.
func Sequence(elems ...Matchable) *SequenceGrammar {
	return &SequenceGrammar{Elements: elems, CodeOnly: true}
}

// WithCodeOnly sets whether non-code is transparent.
func (g *SequenceGrammar) WithCodeOnly(codeOnly bool) *SequenceGrammar {
	g.CodeOnly = codeOnly
	return g
}

func cursor(matched, rest []segment.Segment) token.Position {
	if len(rest) > 0 {
		return rest[0].Pos()
	}
	if len(matched) > 0 {
		return endOf(matched[len(matched)-1])
	}
	return token.Position{}
}

func restIsOptional(elems []Matchable) bool {
	for _, e := range elems {
		if !e.IsOptional() && !isMeta(e) {
			return false
		}
	}
	return true
}

// Match runs the elements in order. When the input runs out first, the
// match stands only if every remaining element is optional. A sequence
// that claimed nothing but non-code and metas is no match.
func (g *SequenceGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	var matched []segment.Segment
	rest := segs
	claimed := false

	for i, elem := range g.Elements {
		if meta, ok := elem.(*MetaGrammar); ok {
			matched = append(matched, meta.segmentAt(cursor(matched, rest)))
			continue
		}
		for {
			if len(rest) == 0 {
				if !restIsOptional(g.Elements[i:]) {
					return segment.FromUnmatched(segs), nil
				}
				for _, e := range g.Elements[i:] {
					if meta, ok := e.(*MetaGrammar); ok {
						matched = append(matched, meta.segmentAt(cursor(matched, rest)))
					}
				}
				if !claimed {
					return segment.FromUnmatched(segs), nil
				}
				return segment.FromMatched(matched), nil
			}
			if g.CodeOnly && !rest[0].IsCode() {
				matched = append(matched, rest[0])
				rest = rest[1:]
				continue
			}
			m, err := match(elem, rest, ctx)
			if err != nil {
				return segment.MatchResult{}, err
			}
			if m.HasMatch() {
				matched = segment.Concat(matched, m.Matched)
				rest = m.Unmatched
				claimed = true
				break
			}
			if elem.IsOptional() {
				break
			}
			return segment.FromUnmatched(segs), nil
		}
	}

	if !claimed {
		return segment.FromUnmatched(segs), nil
	}
	res := segment.MatchResult{Matched: matched, Unmatched: rest}
	if g.CodeOnly {
		res = absorbTrailing(res)
	}
	return res, nil
}

// Simple is the set of the first required element, together with the sets
// of the optional elements before it.
func (g *SequenceGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	var out []string
	for _, e := range g.Elements {
		if isMeta(e) {
			continue
		}
		s, ok := e.Simple(ctx, crumbs)
		if !ok {
			return nil, false
		}
		out = append(out, s...)
		if !e.IsOptional() {
			break
		}
	}
	return out, len(out) > 0
}

func (g *SequenceGrammar) IsOptional() bool { return false }

func (g *SequenceGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	var elems []Matchable
	for _, e := range g.Elements {
		if !isMeta(e) {
			elems = append(elems, e)
		}
	}
	return expectedList(elems, r, calledFrom, ", ")
}

func (g *SequenceGrammar) String() string { return describe("Sequence", g.Elements) }

// =============================================================================
// Bracketed
// =============================================================================

// Bracket types.
const (
	BracketRound  = "round"
	BracketSquare = "square"
	BracketCurly  = "curly"
)

// BracketedGrammar matches a bracketed region whose content matches its
// elements as a sequence.
type BracketedGrammar struct {
	Elements    []Matchable
	BracketType string
	CodeOnly    bool
}

// Bracketed matches elems inside round brackets.
func Bracketed(elems ...Matchable) *BracketedGrammar {
	return &BracketedGrammar{Elements: elems, BracketType: BracketRound, CodeOnly: true}
}

// Square switches to square brackets.
func (g *BracketedGrammar) Square() *BracketedGrammar {
	g.BracketType = BracketSquare
	return g
}

// Curly switches to curly brackets.
func (g *BracketedGrammar) Curly() *BracketedGrammar {
	g.BracketType = BracketCurly
	return g
}

// Match requires the first code segment to open a bracket, finds its
// partner with bracket counting and matches the content in between
// completely. An Indent follows the opening bracket and a Dedent precedes
// the closing one. Empty content is accepted when every element is
// optional.
func (g *BracketedGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	pair, err := bracketPair(ctx.Dialect, g.BracketType)
	if err != nil {
		return segment.MatchResult{}, err
	}

	start, err := codeOnlySensitiveMatch(segs, Ref(pair.Start), ctx, g.CodeOnly)
	if err != nil {
		return segment.MatchResult{}, err
	}
	if !start.HasMatch() {
		return segment.FromUnmatched(segs), nil
	}

	f, err := bracketLookAhead(start.Unmatched, []Matchable{Ref(pair.End)}, ctx, g.CodeOnly)
	if err != nil {
		return noMatchOnBracketError(err, segs, ctx)
	}
	if !f.ok() {
		return noMatchOnBracketError(&BracketError{Msg: MsgUnclosedBracket, Segment: firstCode(start.Matched)}, segs, ctx)
	}

	// Non-code before the closing bracket belongs to the content.
	closing := f.match.Matched
	lead := leadingNonCode(closing)
	content := segment.Concat(f.pre, closing[:lead])
	closing = closing[lead:]

	var body []segment.Segment
	cm, err := codeOnlySensitiveMatch(content, &SequenceGrammar{Elements: g.Elements, CodeOnly: g.CodeOnly}, ctx, g.CodeOnly)
	if err != nil {
		return segment.MatchResult{}, err
	}
	switch {
	case cm.IsComplete():
		body = cm.Matched
	case restIsOptional(g.Elements) && (len(content) == 0 || (g.CodeOnly && allNonCode(content))):
		body = content
	default:
		return segment.FromUnmatched(segs), nil
	}

	indentAt := closing[0].Pos()
	if len(body) > 0 {
		indentAt = body[0].Pos()
	}
	matched := segment.Concat(
		start.Matched,
		[]segment.Segment{segment.NewIndent(indentAt)},
		body,
		[]segment.Segment{segment.NewDedent(closing[0].Pos())},
		closing,
	)
	return segment.MatchResult{Matched: matched, Unmatched: f.match.Unmatched}, nil
}

// Simple is the opening bracket.
func (g *BracketedGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	pair, err := bracketPair(ctx.Dialect, g.BracketType)
	if err != nil {
		return nil, false
	}
	return Ref(pair.Start).Simple(ctx, crumbs)
}

func (g *BracketedGrammar) IsOptional() bool { return false }

func (g *BracketedGrammar) ExpectedString(r segment.Resolver, calledFrom map[string]bool) string {
	open, closing := "(", ")"
	switch g.BracketType {
	case BracketSquare:
		open, closing = "[", "]"
	case BracketCurly:
		open, closing = "{", "}"
	}
	return open + " " + (&SequenceGrammar{Elements: g.Elements}).ExpectedString(r, calledFrom) + " " + closing
}

func (g *BracketedGrammar) String() string { return describe("Bracketed", g.Elements) }
