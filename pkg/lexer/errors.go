package lexer

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// LexViolation records a region that only the last-resort matcher could
// lex. Lexing carries on past it.
type LexViolation struct {
	Pos     token.Position
	Raw     string
	Message string
}

func (v *LexViolation) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", v.Pos.Line, v.Pos.Column, v.Message)
}

// LexError is returned when the lexer cannot make progress at all.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Error messages
const (
	ErrUnlexable  = "unable to lex characters: %q"
	ErrNoProgress = "no matcher can advance past %q"
)
