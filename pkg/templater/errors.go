package templater

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// TemplateError is a failure to render a template, positioned in the
// source text.
type TemplateError struct {
	Path    string
	Pos     token.Position
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// Error messages
const (
	ErrUnclosedTag = "unclosed expression: missing '}}'"
	ErrEmptyTag    = "empty expression"
	ErrEvalFailed  = "cannot evaluate %q"
	ErrUnsupported = "unsupported template variable %q"
)
