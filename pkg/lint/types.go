package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the RuleContext handed to
// Crawl, including the memory threaded between calls.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "LT01"
	Name        string        // Human-readable name, e.g., "layout.trailing_whitespace"
	Group       string        // Category, e.g., "layout", "ambiguous", "capitalisation"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Crawl       CrawlFunc     // Called once per segment of the tree
	ConfigKeys  []string      // Configuration keys this rule accepts (for rule-specific options)
	Dialects    []string      // Restrict to specific dialects; nil/empty means all dialects

	// Options returns a pointer to the rule's option struct filled with
	// defaults. Configured options are decoded into it. Nil when the
	// rule takes none.
	Options func() any

	// AutoFixable is true if Crawl returns fixes.
	AutoFixable bool

	// Source is "builtin" for compiled rules and the file path for
	// Starlark rules.
	Source string

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CrawlFunc evaluates one segment. It returns nil when there is nothing
// to report and no memory to carry.
type CrawlFunc func(ctx *RuleContext) *Result

// Info extracts metadata for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	source := r.Source
	if source == "" {
		source = SourceBuiltin
	}
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Dialects:        r.Dialects,
		Fixable:         r.AutoFixable,
		Source:          source,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}

// SourceBuiltin marks rules compiled into the binary.
const SourceBuiltin = "builtin"

// =============================================================================
// Crawl Context
// =============================================================================

// RuleContext is what a rule sees of the tree at one segment.
type RuleContext struct {
	Segment segment.Segment
	// ParentStack holds the ancestors of Segment, root first.
	ParentStack []segment.Segment
	// SiblingsPre and SiblingsPost are the other children of the parent,
	// before and after Segment.
	SiblingsPre  []segment.Segment
	SiblingsPost []segment.Segment
	// RawStack holds the leaves before Segment and RawPost the leaves
	// after it, in source order. Meta segments are left out.
	RawStack []segment.Segment
	RawPost  []segment.Segment
	// Memory is whatever the rule returned as memory so far in this crawl.
	Memory  any
	Dialect *dialect.Dialect
	// Options is the value returned by RuleDef.Options after decoding the
	// configured options into it.
	Options any
}

// Parent returns the direct parent of the segment, or nil at the root.
func (c *RuleContext) Parent() segment.Segment {
	if len(c.ParentStack) == 0 {
		return nil
	}
	return c.ParentStack[len(c.ParentStack)-1]
}

// PrevRaw returns the leaf before the segment, or nil.
func (c *RuleContext) PrevRaw() segment.Segment {
	if len(c.RawStack) == 0 {
		return nil
	}
	return c.RawStack[len(c.RawStack)-1]
}

// NextRaw returns the leaf after the segment, or nil.
func (c *RuleContext) NextRaw() segment.Segment {
	if len(c.RawPost) == 0 {
		return nil
	}
	return c.RawPost[0]
}

// AtLineStart reports whether the segment is the first leaf of its line.
func (c *RuleContext) AtLineStart() bool {
	prev := c.PrevRaw()
	return prev == nil || prev.IsType(segment.TypeNewline)
}

// InType reports whether any ancestor has one of types.
func (c *RuleContext) InType(types ...string) bool {
	for _, p := range c.ParentStack {
		if p.IsType(types...) {
			return true
		}
	}
	return false
}

// Result is what a rule reports at a segment. A result with a nil Anchor
// only carries memory; a nil Memory keeps the memory from before.
type Result struct {
	Anchor      segment.Segment
	Fixes       []segment.Fix
	Memory      any
	Description string
}

// =============================================================================
// Violations
// =============================================================================

// Violation is a problem found in a file: a rule result, or a template,
// lexer or parse error.
type Violation struct {
	Code        string         `json:"code" yaml:"code"`
	Description string         `json:"description" yaml:"description"`
	Pos         token.Position `json:"-" yaml:"-"`
	Line        int            `json:"line" yaml:"line"`
	Column      int            `json:"column" yaml:"column"`
	Severity    core.Severity  `json:"severity" yaml:"severity"`
	Path        string         `json:"path,omitempty" yaml:"path,omitempty"`
	Fixable     bool           `json:"fixable" yaml:"fixable"`
	Fixes       []segment.Fix  `json:"-" yaml:"-"`
}

// NewViolation creates a violation at pos.
func NewViolation(code, description string, pos token.Position, severity core.Severity) Violation {
	return Violation{
		Code:        code,
		Description: description,
		Pos:         pos,
		Line:        pos.Line,
		Column:      pos.Column,
		Severity:    severity,
	}
}
