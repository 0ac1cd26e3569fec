package lint

import (
	"context"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Linter runs lint rules against parse trees. A Linter is read-only once
// built, so one value may lint files from several goroutines.
type Linter struct {
	parser *parser.Parser
	config *Config
	rules  []activeRule
	logger *slog.Logger
}

type activeRule struct {
	def     RuleDef
	options any
}

// Option configures a Linter.
type Option func(*linterOptions)

type linterOptions struct {
	logger *slog.Logger
	rules  []RuleDef
	extra  []RuleDef
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *linterOptions) { o.logger = l }
}

// WithRules replaces the registered rules with rules.
func WithRules(rules ...RuleDef) Option {
	return func(o *linterOptions) { o.rules = rules }
}

// WithExtraRules adds rules to the registered ones, such as rules loaded
// from Starlark files.
func WithExtraRules(rules ...RuleDef) Option {
	return func(o *linterOptions) { o.extra = append(o.extra, rules...) }
}

// NewLinter creates a linter for the dialect of p. Rules that do not apply
// to the dialect or are disabled in cfg are dropped; the options of the
// others are decoded from cfg.
func NewLinter(p *parser.Parser, cfg *Config, opts ...Option) (*Linter, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	o := &linterOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	dialectName := p.Dialect().Name()
	defs := o.rules
	if defs == nil {
		defs = GetByDialect(dialectName)
	}
	defs = append(defs[:len(defs):len(defs)], o.extra...)

	l := &Linter{parser: p, config: cfg, logger: o.logger}
	for _, def := range defs {
		if cfg.IsDisabled(def.ID) || !appliesTo(def, dialectName) {
			continue
		}
		options, err := OptionsFor(def, cfg)
		if err != nil {
			return nil, err
		}
		l.rules = append(l.rules, activeRule{def: def, options: options})
	}
	sort.SliceStable(l.rules, func(i, j int) bool { return l.rules[i].def.ID < l.rules[j].def.ID })
	return l, nil
}

// Rules returns the rules the linter runs.
func (l *Linter) Rules() []RuleDef {
	out := make([]RuleDef, len(l.rules))
	for i, r := range l.rules {
		out[i] = r.def
	}
	return out
}

// Lint runs every rule over tree and returns the violations not
// suppressed by a noqa comment, ordered by position.
func (l *Linter) Lint(tree segment.Segment) []Violation {
	if tree == nil {
		return nil
	}
	directives, problems := collectNoqa(tree)
	var violations []Violation
	for _, r := range l.rules {
		for _, res := range crawl(r.def, tree, l.parser.Dialect(), r.options) {
			violations = append(violations, l.violation(r.def, res))
		}
	}
	violations = append(filterNoqa(violations, directives), problems...)
	sortViolations(violations)
	return violations
}

// Fix runs the fix loop on tree: each rule's fixes are applied in turn
// until a full pass changes nothing or the runaway limit is reached. A
// fix that would bring back text already seen in this loop is refused.
// Fix returns the fixed tree and the violations of the original tree.
func (l *Linter) Fix(tree segment.Segment) (segment.Segment, []Violation) {
	violations := l.Lint(tree)
	if tree == nil {
		return nil, violations
	}

	seen := map[string]bool{tree.Raw(): true}
	limit := l.config.runawayLimit()
	loop := 0
	for ; loop < limit; loop++ {
		changed := false
		for _, r := range l.rules {
			fixes := l.pendingFixes(r, tree)
			if len(fixes) == 0 {
				continue
			}
			fixed, unapplied := segment.ApplyFixes(tree, fixes)
			if len(unapplied) > 0 {
				l.logger.Debug("fixes without anchor", slog.String("rule", r.def.ID), slog.Int("count", len(unapplied)))
			}
			raw := fixed.Raw()
			if seen[raw] {
				l.logger.Debug("refusing fix that repeats an earlier version", slog.String("rule", r.def.ID), slog.Int("loop", loop))
				continue
			}
			seen[raw] = true
			tree = fixed
			changed = true
		}
		if !changed {
			break
		}
	}
	if loop == limit {
		l.logger.Warn("fix loop hit the runaway limit", slog.Int("limit", limit))
	}
	return tree, violations
}

// pendingFixes crawls tree with one rule and gathers the fixes of the
// results not suppressed by noqa.
func (l *Linter) pendingFixes(r activeRule, tree segment.Segment) []segment.Fix {
	directives, _ := collectNoqa(tree)
	var fixes []segment.Fix
	for _, res := range crawl(r.def, tree, l.parser.Dialect(), r.options) {
		if len(res.Fixes) == 0 {
			continue
		}
		if d, ok := directives[res.Anchor.Pos().Line]; ok && d.suppresses(r.def.ID) {
			continue
		}
		fixes = append(fixes, res.Fixes...)
	}
	return fixes
}

func (l *Linter) violation(rule RuleDef, res *Result) Violation {
	desc := res.Description
	if desc == "" {
		desc = rule.Description
	}
	v := NewViolation(rule.ID, desc, res.Anchor.Pos(), l.config.GetSeverity(rule.ID, rule.Severity))
	v.Fixes = res.Fixes
	v.Fixable = len(res.Fixes) > 0
	return v
}

// =============================================================================
// Files
// =============================================================================

// FileResult is the outcome of linting or fixing one file.
type FileResult struct {
	Path      string
	Source    string
	Templated string
	Tree      segment.Segment
	// Violations of the file as read, parse problems included.
	Violations []Violation
	// Fixed is the fixed text; set by FixString only.
	Fixed string
	// Remaining are the violations left after fixing.
	Remaining []Violation
}

// Changed reports whether fixing changed the file.
func (r *FileResult) Changed() bool {
	return r.Fixed != "" && r.Fixed != r.Source
}

// LintString parses raw and lints the tree.
func (l *Linter) LintString(ctx context.Context, raw, path string) (*FileResult, error) {
	return l.run(ctx, raw, path, false)
}

// FixString parses raw, lints it and runs the fix loop. Files the
// templater changed are linted but not fixed: fixes apply to the
// templated text, which cannot be written back over the source.
func (l *Linter) FixString(ctx context.Context, raw, path string) (*FileResult, error) {
	return l.run(ctx, raw, path, true)
}

func (l *Linter) run(ctx context.Context, raw, path string, fix bool) (*FileResult, error) {
	parsed, err := l.parser.Parse(ctx, raw, path)
	if err != nil {
		return nil, err
	}
	res := &FileResult{Path: path, Source: raw}
	if parsed.Tree != nil {
		res.Tree = parsed.Tree
	}
	if parsed.Templated != nil {
		res.Templated = parsed.Templated.Templated
	}

	var violations []Violation
	for _, pe := range parsed.Violations {
		violations = append(violations, NewViolation(pe.Code, pe.Message, pe.Pos, core.SeverityError))
	}
	if parsed.Tree != nil {
		directives, _ := collectNoqa(parsed.Tree)
		violations = filterNoqa(violations, directives)
	}

	switch {
	case parsed.Tree == nil:
		if fix {
			res.Fixed = raw
		}
	case fix && res.Templated == raw:
		fixed, found := l.Fix(parsed.Tree)
		violations = append(violations, found...)
		res.Fixed = fixed.Raw()
		res.Remaining = l.Lint(fixed)
	default:
		if fix {
			l.logger.Info("not fixing templated file", slog.String("path", path))
			res.Fixed = raw
		}
		violations = append(violations, l.Lint(parsed.Tree)...)
	}

	sortViolations(violations)
	for i := range violations {
		violations[i].Path = path
	}
	for i := range res.Remaining {
		res.Remaining[i].Path = path
	}
	res.Violations = violations
	return res, nil
}

func sortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Pos.Offset != vs[j].Pos.Offset {
			return vs[i].Pos.Offset < vs[j].Pos.Offset
		}
		return vs[i].Code < vs[j].Code
	})
}
