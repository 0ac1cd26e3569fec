package output

import (
	"time"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// LintOutput is the structured result of the lint and fix commands.
type LintOutput struct {
	Summary LintSummary      `json:"summary" yaml:"summary"`
	Files   []LintFileResult `json:"files" yaml:"files"`
}

// LintSummary totals a lint run.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesFixed    int `json:"files_fixed,omitempty" yaml:"files_fixed,omitempty"`
	TotalIssues   int `json:"total_issues" yaml:"total_issues"`
	Errors        int `json:"errors" yaml:"errors"`
	Warnings      int `json:"warnings" yaml:"warnings"`
	Info          int `json:"info" yaml:"info"`
	Hints         int `json:"hints" yaml:"hints"`
}

// LintFileResult holds the violations of one file.
type LintFileResult struct {
	Path       string           `json:"path" yaml:"path"`
	Fixed      bool             `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Violations []lint.Violation `json:"violations" yaml:"violations"`
}

// Add counts the violations of f and appends it to the output.
func (o *LintOutput) Add(f LintFileResult) {
	o.Summary.FilesAnalyzed++
	if f.Fixed {
		o.Summary.FilesFixed++
	}
	for _, v := range f.Violations {
		o.Summary.TotalIssues++
		switch v.Severity {
		case core.SeverityError:
			o.Summary.Errors++
		case core.SeverityWarning:
			o.Summary.Warnings++
		case core.SeverityInfo:
			o.Summary.Info++
		case core.SeverityHint:
			o.Summary.Hints++
		}
	}
	if f.Violations == nil {
		f.Violations = []lint.Violation{}
	}
	o.Files = append(o.Files, f)
}

// RunOutput is the structured form of a history entry.
type RunOutput struct {
	ID         string         `json:"id" yaml:"id"`
	Command    string         `json:"command" yaml:"command"`
	Dialect    string         `json:"dialect" yaml:"dialect"`
	Status     string         `json:"status" yaml:"status"`
	Files      int            `json:"files" yaml:"files"`
	Violations int            `json:"violations" yaml:"violations"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Counts     map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
}

// DialectOutput describes a registered dialect.
type DialectOutput struct {
	Name    string `json:"name" yaml:"name"`
	Parent  string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Default bool   `json:"default" yaml:"default"`
	Rules   int    `json:"rules" yaml:"rules"`
}

// ParseViolation is a template, lex or parse error in structured output.
type ParseViolation struct {
	Code    string `json:"code" yaml:"code"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// ParseViolations converts parser errors for output. The result is never nil.
func ParseViolations(errs []*parser.ParseError) []ParseViolation {
	out := make([]ParseViolation, 0, len(errs))
	for _, e := range errs {
		out = append(out, ParseViolation{Code: e.Code, Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message})
	}
	return out
}

// ParseOutput is the structured result of parsing one file.
type ParseOutput struct {
	Path       string           `json:"path" yaml:"path"`
	Tree       *segment.Record  `json:"tree,omitempty" yaml:"tree,omitempty"`
	Violations []ParseViolation `json:"violations" yaml:"violations"`
}

// TokenOutput is one lexed token.
type TokenOutput struct {
	Type   string `json:"type" yaml:"type"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Raw    string `json:"raw" yaml:"raw"`
}

// LexOutput is the structured result of lexing one file.
type LexOutput struct {
	Path       string           `json:"path" yaml:"path"`
	Tokens     []TokenOutput    `json:"tokens" yaml:"tokens"`
	Violations []ParseViolation `json:"violations" yaml:"violations"`
}
