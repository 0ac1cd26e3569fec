package segment

import (
	"errors"
	"fmt"
)

// Errors returned by the match protocol.
var (
	// ErrNoMatchGrammar is returned when a kind without a match grammar is
	// asked to claim segments.
	ErrNoMatchGrammar = errors.New("kind has no match grammar")
	// ErrDroppedSegments is returned when a matcher loses or invents
	// source text. It always indicates a bug in a grammar.
	ErrDroppedSegments = errors.New("match dropped segments")
)

// MatchResult pairs the segments a matcher claimed with the remainder.
type MatchResult struct {
	Matched   []Segment
	Unmatched []Segment
}

// FromMatched claims every segment.
func FromMatched(segs []Segment) MatchResult {
	return MatchResult{Matched: segs}
}

// FromUnmatched claims nothing.
func FromUnmatched(segs []Segment) MatchResult {
	return MatchResult{Unmatched: segs}
}

// FromEmpty is the result of matching an empty input.
func FromEmpty() MatchResult {
	return MatchResult{}
}

// HasMatch reports whether anything was claimed.
func (m MatchResult) HasMatch() bool { return len(m.Matched) > 0 }

// IsComplete reports whether everything was claimed.
func (m MatchResult) IsComplete() bool { return len(m.Matched) > 0 && len(m.Unmatched) == 0 }

// Len is the number of claimed segments.
func (m MatchResult) Len() int { return len(m.Matched) }

// All returns matched followed by unmatched segments.
func (m MatchResult) All() []Segment { return concat(m.Matched, m.Unmatched) }

// Add appends other's claimed segments, keeping m's remainder.
func (m MatchResult) Add(other MatchResult) MatchResult {
	return MatchResult{Matched: concat(m.Matched, other.Matched), Unmatched: m.Unmatched}
}

// AddSegments appends segs to the claimed segments.
func (m MatchResult) AddSegments(segs ...Segment) MatchResult {
	return MatchResult{Matched: concat(m.Matched, segs), Unmatched: m.Unmatched}
}

func (m MatchResult) String() string {
	return fmt.Sprintf("<MatchResult %d/%d>", len(m.Matched), len(m.Matched)+len(m.Unmatched))
}

// =============================================================================
// Matchable
// =============================================================================

// Matchable is implemented by grammars and segment kinds.
type Matchable interface {
	// Match claims a prefix of segs. Bracket mismatches and other parse
	// failures are reported as a result without a match; an error means
	// the dialect or grammar is misconfigured.
	Match(segs []Segment, ctx *ParseContext) (MatchResult, error)
	// Simple returns the upper-cased literals the matcher could match at
	// its first position, when that set is known without matching.
	// crumbs holds the references already being resolved.
	Simple(ctx *ParseContext, crumbs []string) ([]string, bool)
	IsOptional() bool
	// ExpectedString is a human description used in parse errors.
	// calledFrom guards against recursion through references.
	ExpectedString(r Resolver, calledFrom map[string]bool) string
}

// Expected returns the expected string of m.
func Expected(m Matchable, r Resolver) string {
	return m.ExpectedString(r, map[string]bool{})
}

// MatchWith runs m over segs one match level deeper, firing the trace
// hook and checking that nothing was dropped.
func MatchWith(m Matchable, segs []Segment, ctx *ParseContext) (MatchResult, error) {
	deeper := ctx.deeperMatch()
	deeper.trace(TraceEnter, m, len(segs), 0)
	res, err := m.Match(segs, deeper)
	if err != nil {
		return MatchResult{}, err
	}
	deeper.trace(TraceExit, m, len(segs), len(res.Matched))
	if err := checkStillComplete(segs, res); err != nil {
		return MatchResult{}, fmt.Errorf("%v: %w", m, err)
	}
	return res, nil
}

func checkStillComplete(segs []Segment, res MatchResult) error {
	// The unmatched tail is a suffix of the input, so the matched part
	// must account for the rest of its text.
	n := len(res.Unmatched)
	if n <= len(segs) && (n == 0 || res.Unmatched[n-1].ID() == segs[len(segs)-1].ID()) &&
		rawLen(segs) == rawLen(res.Matched)+rawLen(res.Unmatched) {
		return nil
	}
	want := JoinRaw(segs)
	got := JoinRaw(res.Matched) + JoinRaw(res.Unmatched)
	if want != got {
		return fmt.Errorf("%w: %q became %q", ErrDroppedSegments, want, got)
	}
	return nil
}

func rawLen(segs []Segment) int {
	n := 0
	for _, s := range segs {
		n += len(s.Raw())
	}
	return n
}
