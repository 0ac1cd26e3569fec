// Package lexer splits raw SQL into the flat token stream the parser works
// on. Every character of the input ends up in exactly one token, so
// joining the raw text of the tokens gives back the input.
package lexer

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// StatementTerminator bumps the statement index of the tokens after it.
const StatementTerminator = ";"

// Lexer tokenizes SQL input with an ordered list of matchers.
type Lexer struct {
	matchers   []Matcher
	lastResort Matcher
}

// New creates a Lexer. A nil lastResort selects LastResort().
func New(matchers []Matcher, lastResort Matcher) *Lexer {
	if lastResort == nil {
		lastResort = LastResort()
	}
	return &Lexer{matchers: matchers, lastResort: lastResort}
}

// Result is the output of a Lex call.
type Result struct {
	Segments   []segment.Segment
	Violations []*LexViolation
}

// Lex tokenizes raw. Regions no matcher recognises are lexed by the
// last-resort matcher as unlexable code and reported as violations. An
// error is returned only when not even the last-resort matcher can
// advance.
func (l *Lexer) Lex(raw string) (*Result, error) {
	res := &Result{}
	pos := token.Start()
	rest := raw
	for rest != "" {
		m, n := l.next(rest)
		if n == 0 {
			n = l.lastResort.Match(rest)
			if n == 0 {
				return res, &LexError{Pos: pos, Message: fmt.Sprintf(ErrNoProgress, preview(rest))}
			}
			m = l.lastResort
			res.Violations = append(res.Violations, &LexViolation{
				Pos:     pos,
				Raw:     rest[:n],
				Message: fmt.Sprintf(ErrUnlexable, preview(rest[:n])),
			})
		}

		text := rest[:n]
		res.Segments = append(res.Segments, segment.NewRaw(text, pos, m.Attrs()))
		delta := 0
		if text == StatementTerminator {
			delta = 1
		}
		pos = pos.AdvanceBy(text, delta)
		rest = rest[n:]
	}
	return res, nil
}

// next returns the first matcher that matches a non-empty prefix of s.
func (l *Lexer) next(s string) (Matcher, int) {
	for _, m := range l.matchers {
		if n := m.Match(s); n > 0 {
			return m, n
		}
	}
	return nil, 0
}

func preview(s string) string {
	const limit = 20
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
