package parser

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Violation codes of problems found before linting.
const (
	CodeTemplate = "TMP"
	CodeLex      = "LXR"
	CodeParse    = "PRS"
)

// ParseError is a problem found while templating, lexing or parsing a
// file. Parsing carries on past it; the tree keeps the offending region.
type ParseError struct {
	Code    string
	Pos     token.Position
	Span    token.Span // extent of the offending region, zero when unknown
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at line %d, column %d: %s", stage(e.Code), e.Pos.Line, e.Pos.Column, e.Message)
}

func stage(code string) string {
	switch code {
	case CodeTemplate:
		return "template"
	case CodeLex:
		return "lexer"
	default:
		return "parse"
	}
}

// Common error messages
const (
	ErrUnparsable      = "Found unparsable section: %q"
	ErrUnparsableHint  = "Found unparsable section: %q. Expected %s"
	ErrBracketMismatch = "Found unparsable section: %q. %s"
	ErrNoFileSegment   = "dialect %s has no FileSegment kind"
)
