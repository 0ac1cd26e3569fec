// Package layout provides lint rules for whitespace and indentation.
// These rules follow SQLFluff's LT (Layout) rule category.
//
// Rules in this package:
//   - LT01: Trailing whitespace
//   - LT02: Mixed tabs and spaces in indentation
//   - LT03: Indentation not a multiple of the indent unit
//   - LT04: Inconsistent indentation style across the file
//   - LT05: Whitespace before a comma
//   - LT06: Binary operators not surrounded by single spaces
//   - LT07: Comma not followed by a single space
//   - LT08: File does not end with a single newline
package layout

import "github.com/leapstack-labs/leaplint/pkg/segment"

// IndentOptions are the options of the indentation rules.
type IndentOptions struct {
	TabSpaceSize int `mapstructure:"tab_space_size"`
}

func defaultIndentOptions() any {
	return &IndentOptions{TabSpaceSize: 4}
}

func indentOptions(v any) *IndentOptions {
	if o, ok := v.(*IndentOptions); ok && o.TabSpaceSize > 0 {
		return o
	}
	return &IndentOptions{TabSpaceSize: 4}
}

// isIndent reports whether s is whitespace opening a line that has more
// on it than the whitespace itself.
func isIndent(s, prev, next segment.Segment) bool {
	if !s.IsType(segment.TypeWhitespace) {
		return false
	}
	if prev != nil && !prev.IsType(segment.TypeNewline) {
		return false
	}
	return next != nil && !next.IsType(segment.TypeNewline)
}

func isLineBreak(s segment.Segment) bool {
	return s == nil || s.IsType(segment.TypeNewline)
}
