package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Bracket error messages.
const (
	MsgUnclosedBracket = "Couldn't find closing bracket for opening bracket."
	MsgUnexpectedEnd   = "Found unexpected end bracket!"
	MsgMismatchedEnd   = "Found end bracket %q which does not close %q."
)

// ErrUnknownBracket is returned when a grammar asks for a bracket type the
// dialect does not declare.
var ErrUnknownBracket = errors.New("unknown bracket type")

// BracketError reports unbalanced brackets found during lookahead. It is
// recorded on the parse context rather than returned: the grammar that
// hit it reports no match.
type BracketError struct {
	Msg     string
	Segment segment.Segment
}

func (e *BracketError) Error() string {
	pos := e.Segment.Pos()
	return fmt.Sprintf("bracket error at line %d, column %d: %s", pos.Line, pos.Column, e.Msg)
}

// noMatchOnBracketError turns a bracket error into a recorded problem and
// a negative result. Other errors pass through.
func noMatchOnBracketError(err error, segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	var be *BracketError
	if errors.As(err, &be) {
		ctx.RecordProblem(be.Segment.ID(), be)
		return segment.FromUnmatched(segs), nil
	}
	return segment.MatchResult{}, err
}

// found is the outcome of a lookahead: the segments skipped before the
// match, the match itself and the index of the matcher that produced it.
type found struct {
	pre   []segment.Segment
	match segment.MatchResult
	idx   int
}

func (f found) ok() bool { return f.idx >= 0 && f.match.HasMatch() }

var notFound = found{idx: -1}

// firstRawUpper is the upper-cased raw of the first code leaf of s.
func firstRawUpper(s segment.Segment) string {
	if len(s.Segments()) == 0 {
		return strings.ToUpper(s.Raw())
	}
	for _, leaf := range segment.RawSegments(s) {
		if leaf.IsCode() {
			return strings.ToUpper(leaf.Raw())
		}
	}
	return ""
}

// lookAhead finds the earliest position in segs where one of matchers
// matches. Matchers with a simple set are located with a single scan of
// the raw stream; the others are tried position by position up to the
// best simple hit. At one position the longest match wins, ties going to
// the earlier matcher.
func lookAhead(segs []segment.Segment, matchers []Matchable, ctx *segment.ParseContext, codeOnly bool) (found, error) {
	if len(segs) == 0 {
		return notFound, nil
	}

	type simpleMatcher struct {
		idx  int
		lits map[string]bool
	}
	var simple []simpleMatcher
	var complex []Matchable
	var complexIdx []int
	for i, m := range matchers {
		if lits, ok := m.Simple(ctx, nil); ok {
			set := make(map[string]bool, len(lits))
			for _, l := range lits {
				set[l] = true
			}
			simple = append(simple, simpleMatcher{idx: i, lits: set})
			continue
		}
		complex = append(complex, m)
		complexIdx = append(complexIdx, i)
	}

	best := notFound
	limit := len(segs)
	if len(simple) > 0 {
	scan:
		for pos, s := range segs {
			if !s.IsCode() {
				continue
			}
			raw := firstRawUpper(s)
			start := pos
			if codeOnly {
				for start > 0 && !segs[start-1].IsCode() {
					start--
				}
			}
			var hit segment.MatchResult
			hitIdx := -1
			for _, sm := range simple {
				if !sm.lits[raw] {
					continue
				}
				res, err := codeOnlySensitiveMatch(segs[start:], matchers[sm.idx], ctx, codeOnly)
				if err != nil {
					return notFound, err
				}
				if res.HasMatch() && res.Len() > hit.Len() {
					hit, hitIdx = res, sm.idx
				}
			}
			if hitIdx >= 0 {
				best = found{pre: segs[:start], match: hit, idx: hitIdx}
				limit = start
				break scan
			}
		}
	}

	if len(complex) > 0 {
		for pos := 0; pos < limit; pos++ {
			if codeOnly && pos > 0 && !segs[pos-1].IsCode() {
				// Covered by the attempt at the start of this non-code run.
				continue
			}
			res, i, err := longestMatch(segs[pos:], complex, ctx, codeOnly)
			if err != nil {
				return notFound, err
			}
			if i >= 0 && res.HasMatch() {
				return found{pre: segs[:pos], match: res, idx: complexIdx[i]}, nil
			}
		}
	}
	return best, nil
}

type openBracket struct {
	pair int
	seg  segment.Segment
}

// bracketLookAhead is lookAhead that skips over bracketed regions: matches
// are only reported outside any bracket. Unbalanced brackets produce a
// *BracketError.
func bracketLookAhead(segs []segment.Segment, matchers []Matchable, ctx *segment.ParseContext, codeOnly bool) (found, error) {
	if len(segs) == 0 {
		return notFound, nil
	}
	pairs := ctx.Dialect.BracketPairs()
	brackets := make([]Matchable, 0, 2*len(pairs))
	for _, p := range pairs {
		brackets = append(brackets, Ref(p.Start))
	}
	for _, p := range pairs {
		brackets = append(brackets, Ref(p.End))
	}
	all := append(append([]Matchable(nil), matchers...), brackets...)
	n := len(matchers)

	var stack []openBracket
	var pre []segment.Segment
	buf := segs
	for {
		if len(buf) == 0 {
			if len(stack) > 0 {
				return notFound, &BracketError{Msg: MsgUnclosedBracket, Segment: stack[len(stack)-1].seg}
			}
			return notFound, nil
		}

		search, offset := all, 0
		if len(stack) > 0 {
			search, offset = brackets, n
		}
		f, err := lookAhead(buf, search, ctx, codeOnly)
		if err != nil {
			return notFound, err
		}
		if !f.ok() {
			if len(stack) > 0 {
				return notFound, &BracketError{Msg: MsgUnclosedBracket, Segment: stack[len(stack)-1].seg}
			}
			return notFound, nil
		}

		idx := f.idx + offset
		switch {
		case idx < n:
			return found{pre: segment.Concat(pre, f.pre), match: f.match, idx: idx}, nil
		case idx < n+len(pairs):
			stack = append(stack, openBracket{pair: idx - n, seg: firstCode(f.match.Matched)})
		default:
			closing := firstCode(f.match.Matched)
			if len(stack) == 0 {
				return notFound, &BracketError{Msg: MsgUnexpectedEnd, Segment: closing}
			}
			top := stack[len(stack)-1]
			if top.pair != idx-n-len(pairs) {
				return notFound, &BracketError{
					Msg:     fmt.Sprintf(MsgMismatchedEnd, closing.Raw(), top.seg.Raw()),
					Segment: closing,
				}
			}
			stack = stack[:len(stack)-1]
		}
		pre = segment.Concat(pre, f.pre, f.match.Matched)
		buf = f.match.Unmatched
	}
}

func firstCode(segs []segment.Segment) segment.Segment {
	for _, s := range segs {
		if s.IsCode() {
			return s
		}
	}
	return segs[0]
}

// bracketPair finds the dialect's bracket pair of the given type.
func bracketPair(r segment.Resolver, typ string) (segment.BracketPair, error) {
	for _, p := range r.BracketPairs() {
		if p.Type == typ {
			return p, nil
		}
	}
	return segment.BracketPair{}, fmt.Errorf("%w %q in dialect %s", ErrUnknownBracket, typ, r.Name())
}
