// Package ast provides syntax tree traversal utilities for lint rules.
package ast

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Walk traverses a tree depth-first and calls fn for each segment.
// If fn returns false, the children of that segment are skipped.
func Walk(s segment.Segment, fn func(s segment.Segment) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range s.Segments() {
		Walk(c, fn)
	}
}

// IsKeyword reports whether s is one of the keywords, ignoring case.
// AND and OR count as keywords although they parse as operators.
func IsKeyword(s segment.Segment, words ...string) bool {
	if s == nil || len(s.Segments()) > 0 || !s.IsCode() {
		return false
	}
	if !s.IsType(segment.TypeKeyword) && !(s.IsType("binary_operator") && isWord(s.Raw())) {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(s.Raw(), w) {
			return true
		}
	}
	return false
}

// HasKeyword reports whether a direct child of s is one of the keywords.
func HasKeyword(s segment.Segment, words ...string) bool {
	return ChildKeyword(s, words...) != nil
}

// ChildKeyword returns the first direct child of s that is one of the
// keywords, or nil.
func ChildKeyword(s segment.Segment, words ...string) segment.Segment {
	for _, c := range s.Segments() {
		if IsKeyword(c, words...) {
			return c
		}
	}
	return nil
}

// CodeChildren returns the direct children of s that are code.
func CodeChildren(s segment.Segment) []segment.Segment {
	var out []segment.Segment
	for _, c := range s.Segments() {
		if c.IsCode() {
			out = append(out, c)
		}
	}
	return out
}

// FirstCode returns the first code leaf below s, or nil.
func FirstCode(s segment.Segment) segment.Segment {
	for _, r := range segment.RawSegments(s) {
		if r.IsCode() {
			return r
		}
	}
	return nil
}

// isWord reports whether a keyword-like token is made of letters only,
// as opposed to an operator symbol.
func isWord(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return false
		}
	}
	return true
}

// =============================================================================
// Queries
// =============================================================================

// SelectElements returns the select_clause_element segments of a
// select_statement, not descending into subqueries.
func SelectElements(selectStmt segment.Segment) []segment.Segment {
	clause := segment.GetChild(selectStmt, "select_clause")
	if clause == nil {
		return nil
	}
	return segment.GetChildren(clause, "select_clause_element")
}

// HasWildcard reports whether any of the elements is a wildcard.
func HasWildcard(elems []segment.Segment) bool {
	for _, e := range elems {
		if segment.GetChild(e, "wildcard_expression") != nil {
			return true
		}
	}
	return false
}

// SetBranches returns the select statements joined by a set_expression,
// in order.
func SetBranches(setExpr segment.Segment) []segment.Segment {
	return segment.GetChildren(setExpr, "select_statement")
}

// AliasName returns the identifier of an alias_expression, or "".
func AliasName(alias segment.Segment) string {
	if alias == nil {
		return ""
	}
	for _, c := range CodeChildren(alias) {
		if c.IsType("identifier") {
			return strings.Trim(c.Raw(), "`\"")
		}
	}
	return ""
}
