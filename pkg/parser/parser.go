// Package parser turns a file into a concrete syntax tree.
//
// # Usage
//
//	d, ok := dialect.Get("ansi")
//	p := parser.New(d)
//	parsed, err := p.Parse(ctx, sql, "query.sql")
//	if err != nil {
//	    // the dialect is misconfigured or the lexer could not advance
//	}
//	for _, v := range parsed.Violations {
//	    // TMP, LXR and PRS problems
//	}
//
// # Pipeline
//
//	raw text → templater → lexer → FileSegment → Parse (match, then expand)
//
// Unparsable regions stay in the tree as segments of type "unparsable",
// so the tree always round-trips to the templated text.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// FileSegmentName is the dialect entry every tree is rooted in.
const FileSegmentName = "FileSegment"

// Parser parses files against one dialect. A Parser holds no per-file
// state, so one value may parse files from several goroutines.
type Parser struct {
	dialect   *dialect.Dialect
	templater templater.Templater
	logger    *slog.Logger
	recurse   int
	verbosity int
}

// Option configures a Parser.
type Option func(*Parser)

// WithTemplater sets the templater run before lexing.
func WithTemplater(t templater.Templater) Option {
	return func(p *Parser) { p.templater = t }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithRecurse bounds expansion depth. segment.RecurseUnlimited expands
// everything; 0 stops after claiming statements.
func WithRecurse(n int) Option {
	return func(p *Parser) { p.recurse = n }
}

// WithVerbosity sets the engine verbosity. At 2 and above every matcher
// entry and exit is logged at debug level.
func WithVerbosity(v int) Option {
	return func(p *Parser) { p.verbosity = v }
}

// New creates a parser for d, which must be expanded.
func New(d *dialect.Dialect, opts ...Option) *Parser {
	p := &Parser{
		dialect:   d,
		templater: templater.Raw{},
		logger:    slog.New(slog.DiscardHandler),
		recurse:   segment.RecurseUnlimited,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Lexed is the output of Lex.
type Lexed struct {
	Tokens     []segment.Segment
	Violations []*ParseError
	Templated  *templater.TemplatedFile
}

// Parsed is the output of Parse. Tree is nil when templating failed or
// the templated file is empty.
type Parsed struct {
	Tree       *segment.Base
	Violations []*ParseError
	Templated  *templater.TemplatedFile
}

// Lex templates and lexes raw. Template errors are returned as TMP
// violations with no tokens.
func (p *Parser) Lex(ctx context.Context, raw, path string) (*Lexed, error) {
	tf, err := p.templater.Process(ctx, raw, path)
	if err != nil {
		var te *templater.TemplateError
		if !errors.As(err, &te) {
			return nil, fmt.Errorf("templating %s: %w", path, err)
		}
		return &Lexed{
			Templated:  &templater.TemplatedFile{Path: path, Source: raw},
			Violations: []*ParseError{{Code: CodeTemplate, Pos: te.Pos, Message: te.Message}},
		}, nil
	}

	res, err := p.dialect.Lexer().Lex(tf.Templated)
	if err != nil {
		return nil, fmt.Errorf("lexing %s: %w", path, err)
	}
	out := &Lexed{Tokens: res.Segments, Templated: tf}
	for _, v := range res.Violations {
		out.Violations = append(out.Violations, &ParseError{Code: CodeLex, Pos: v.Pos, Message: v.Message})
	}
	return out, nil
}

// Parse templates, lexes and parses raw.
func (p *Parser) Parse(ctx context.Context, raw, path string) (*Parsed, error) {
	lexed, err := p.Lex(ctx, raw, path)
	if err != nil {
		return nil, err
	}
	parsed := &Parsed{Violations: lexed.Violations, Templated: lexed.Templated}
	if len(lexed.Tokens) == 0 {
		return parsed, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := p.fileKind()
	if err != nil {
		return nil, err
	}
	pctx := p.parseContext()
	tree, err := segment.New(kind, lexed.Tokens).Parse(pctx)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	pctx.ClearBlacklist()

	parsed.Tree = tree
	parsed.Violations = append(parsed.Violations, unparsableViolations(tree, pctx.Problems())...)
	p.logger.Debug("parsed file",
		slog.String("path", path),
		slog.String("dialect", p.dialect.Name()),
		slog.Int("violations", len(parsed.Violations)))
	return parsed, nil
}

func (p *Parser) fileKind() (*segment.Kind, error) {
	m, err := p.dialect.Ref(FileSegmentName)
	if err != nil {
		return nil, err
	}
	kind, ok := m.(*segment.Kind)
	if !ok {
		return nil, fmt.Errorf(ErrNoFileSegment, p.dialect.Name())
	}
	return kind, nil
}

func (p *Parser) parseContext() *segment.ParseContext {
	pctx := segment.NewParseContext(p.dialect)
	pctx.Logger = p.logger
	pctx.Recurse = p.recurse
	pctx.Verbosity = p.verbosity
	if p.verbosity >= 2 {
		pctx.Trace = p.trace
	}
	return pctx
}

func (p *Parser) trace(ev segment.TraceEvent) {
	phase := "enter"
	if ev.Phase == segment.TraceExit {
		phase = "exit"
	}
	p.logger.Debug("match",
		slog.String("phase", phase),
		slog.String("matcher", ev.Matcher),
		slog.String("segment", ev.MatchSegment),
		slog.Int("match_depth", ev.MatchDepth),
		slog.Int("parse_depth", ev.ParseDepth),
		slog.Int("input", ev.Input),
		slog.Int("matched", ev.Matched))
}

// unparsableViolations reports each unparsable region once. A bracket
// problem recorded inside the region replaces the expected hint.
func unparsableViolations(tree segment.Segment, problems []error) []*ParseError {
	var out []*ParseError
	for _, u := range segment.Unparsables(tree) {
		span := token.Span{Start: u.Pos(), End: u.EndPos()}
		msg := fmt.Sprintf(ErrUnparsable, u.Raw())
		if be := bracketProblemIn(problems, span); be != nil {
			msg = fmt.Sprintf(ErrBracketMismatch, u.Raw(), be.Msg)
		} else if exp := u.Expected(); exp != "" && exp != segment.ExpectedNothing {
			msg = fmt.Sprintf(ErrUnparsableHint, u.Raw(), exp)
		}
		out = append(out, &ParseError{Code: CodeParse, Pos: firstCodePos(u), Span: span, Message: msg})
	}
	return out
}

func bracketProblemIn(problems []error, span token.Span) *grammar.BracketError {
	for _, err := range problems {
		var be *grammar.BracketError
		if !errors.As(err, &be) {
			continue
		}
		if span.Contains(be.Segment.Pos().Offset) {
			return be
		}
	}
	return nil
}

// firstCodePos skips leading whitespace so the violation points at the
// offending token.
func firstCodePos(u *segment.Base) token.Position {
	for _, s := range segment.RawSegments(u) {
		if s.IsCode() {
			return s.Pos()
		}
	}
	return u.Pos()
}
