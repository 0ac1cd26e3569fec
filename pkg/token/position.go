package token

import "fmt"

// Position represents a location in the templated source.
type Position struct {
	StatementIndex int // 1-based statement counter, bumped after each ';'
	Line           int // 1-based line number
	Column         int // 1-based column number
	Offset         int // 0-based byte offset
}

// Start returns the position of the first character of a file.
func Start() Position {
	return Position{StatementIndex: 1, Line: 1, Column: 1}
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// AdvanceBy returns the position reached after walking raw from p.
// Newlines move to the next line and reset the column. The statement
// index is shifted by idxDelta.
func (p Position) AdvanceBy(raw string, idxDelta int) Position {
	next := p
	next.StatementIndex += idxDelta
	next.Offset += len(raw)
	for _, r := range raw {
		if r == '\n' {
			next.Line++
			next.Column = 1
			continue
		}
		next.Column++
	}
	return next
}

// Compare orders positions by offset.
func (p Position) Compare(other Position) int {
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("L:%4d | P:%4d", p.Line, p.Column)
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}
