package engine

// sql.go - operations on a single in-memory source

import (
	"context"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

// Parse parses raw in the named dialect ("" for the configured one).
func (e *Engine) Parse(ctx context.Context, dialectName, raw, path string) (*parser.Parsed, error) {
	p, err := e.Parser(dialectName)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, raw, path)
}

// Lex templates and lexes raw in the named dialect.
func (e *Engine) Lex(ctx context.Context, dialectName, raw, path string) (*parser.Lexed, error) {
	p, err := e.Parser(dialectName)
	if err != nil {
		return nil, err
	}
	return p.Lex(ctx, raw, path)
}

// Lint lints raw in the named dialect.
func (e *Engine) Lint(ctx context.Context, dialectName, raw, path string) (*lint.FileResult, error) {
	l, err := e.Linter(dialectName)
	if err != nil {
		return nil, err
	}
	return l.LintString(ctx, raw, path)
}

// Fix lints raw in the named dialect and runs the fix loop.
func (e *Engine) Fix(ctx context.Context, dialectName, raw, path string) (*lint.FileResult, error) {
	l, err := e.Linter(dialectName)
	if err != nil {
		return nil, err
	}
	return l.FixString(ctx, raw, path)
}
