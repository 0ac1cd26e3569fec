// Package engine lints, fixes and parses SQL files for the CLI commands
// and the HTTP server. It owns the parsers and linters built from the
// project configuration and the optional run history store.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/starlarkrule"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/templater"
)

// ErrUnknownDialect is returned for a dialect name that is not registered.
var ErrUnknownDialect = errors.New("unknown dialect")

// Engine builds parsers and linters from one project configuration. It
// is safe for concurrent use.
type Engine struct {
	project   *intconfig.ProjectConfig
	lintCfg   *lint.Config
	extra     []lint.RuleDef
	templater templater.Templater
	recurse   int
	verbosity int
	root      string
	logger    *slog.Logger

	// Run history (nil when disabled)
	store state.Store

	mu      sync.Mutex
	linters map[string]*lint.Linter
}

// Config holds engine configuration.
type Config struct {
	// Project is the parse and lint configuration (defaults applied if nil)
	Project *intconfig.ProjectConfig
	// Recurse bounds parse expansion; segment.RecurseUnlimited by default
	Recurse *int
	// Verbosity is handed to the parser
	Verbosity int
	// Root is the directory .leaplintignore is read from
	Root string
	// HistoryPath is the run history database; empty disables history
	HistoryPath string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. It loads Starlark rules and opens the history
// store when configured.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	project := cfg.Project
	if project == nil {
		project = &intconfig.ProjectConfig{}
	}
	intconfig.ApplyDefaults(project)

	if _, ok := dialect.Get(project.Dialect); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, project.Dialect)
	}

	tmpl, err := templater.Get(project.Templater, project.TemplateVars)
	if err != nil {
		return nil, err
	}

	lintCfg, err := project.Lint.ToLintConfig()
	if err != nil {
		return nil, err
	}

	var extra []lint.RuleDef
	if len(project.Lint.StarlarkRules) > 0 {
		extra, err = starlarkrule.LoadAll(project.Lint.StarlarkRules)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded starlark rules", slog.Int("count", len(extra)))
	}

	recurse := segment.RecurseUnlimited
	if cfg.Recurse != nil {
		recurse = *cfg.Recurse
	}

	e := &Engine{
		project:   project,
		lintCfg:   lintCfg,
		extra:     extra,
		templater: tmpl,
		recurse:   recurse,
		verbosity: cfg.Verbosity,
		root:      cfg.Root,
		logger:    logger,
		linters:   make(map[string]*lint.Linter),
	}

	if cfg.HistoryPath != "" {
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.HistoryPath); err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		if err := store.InitSchema(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize history schema: %w", err)
		}
		e.store = store
	}

	logger.Debug("initialized engine",
		slog.String("dialect", project.Dialect),
		slog.String("templater", project.Templater),
		slog.Bool("history", e.store != nil))

	return e, nil
}

// Close releases the history store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Dialect returns the configured dialect name.
func (e *Engine) Dialect() string {
	return e.project.Dialect
}

// Store returns the history store, or nil when history is disabled.
func (e *Engine) Store() state.Store {
	return e.store
}

// resolveDialect maps an empty name to the configured dialect.
func (e *Engine) resolveDialect(name string) (*dialect.Dialect, error) {
	if strings.TrimSpace(name) == "" {
		name = e.project.Dialect
	}
	d, ok := dialect.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDialect, name, strings.Join(dialect.List(), ", "))
	}
	return d, nil
}

// Parser returns a parser for the named dialect, or the configured one
// when name is empty.
func (e *Engine) Parser(name string) (*parser.Parser, error) {
	d, err := e.resolveDialect(name)
	if err != nil {
		return nil, err
	}
	return parser.New(d,
		parser.WithTemplater(e.templater),
		parser.WithLogger(e.logger),
		parser.WithRecurse(e.recurse),
		parser.WithVerbosity(e.verbosity),
	), nil
}

// Linter returns the linter for the named dialect, building it on first
// use. Linters always parse without a recursion bound.
func (e *Engine) Linter(name string) (*lint.Linter, error) {
	d, err := e.resolveDialect(name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.linters[d.Name()]; ok {
		return l, nil
	}

	p := parser.New(d,
		parser.WithTemplater(e.templater),
		parser.WithLogger(e.logger),
		parser.WithVerbosity(e.verbosity),
	)
	l, err := lint.NewLinter(p, e.lintCfg, lint.WithLogger(e.logger), lint.WithExtraRules(e.extra...))
	if err != nil {
		return nil, err
	}
	e.linters[d.Name()] = l
	return l, nil
}

// Rules returns the rules the linter of the configured dialect runs.
func (e *Engine) Rules() ([]lint.RuleDef, error) {
	l, err := e.Linter("")
	if err != nil {
		return nil, err
	}
	return l.Rules(), nil
}

// ExtraRules returns the rules loaded from Starlark files.
func (e *Engine) ExtraRules() []lint.RuleDef {
	return e.extra
}
