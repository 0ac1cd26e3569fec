// Package segment provides the concrete syntax tree produced by the parse
// engine: raw leaf segments, composite segments, zero-width meta segments
// and unparsable regions, together with the match/parse protocol that
// grammars and segment kinds share.
//
// Trees are immutable. Parsing and fix application rebuild the child list
// of a composite rather than mutating it, so segments may be shared freely
// between a tree and the trees derived from it.
package segment

import (
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Segment is a node of the concrete syntax tree.
type Segment interface {
	// ID is the identity of the segment. Copies made while realigning
	// positions keep the ID; edits and re-typed copies get a new one.
	ID() uint64
	// Raw is the source text covered by the segment.
	Raw() string
	Pos() token.Position
	Type() string
	Name() string
	IsCode() bool
	IsComment() bool
	IsWhitespace() bool
	IsMeta() bool
	// IsType reports whether the segment's type is one of types.
	IsType(types ...string) bool
	// Segments returns the children. Leaves return nil.
	Segments() []Segment
	// IsExpandable reports whether calling Parse on the segment can
	// change it.
	IsExpandable() bool

	relocate(pos token.Position) Segment
}

// Attrs are the static attributes of a raw segment.
type Attrs struct {
	Type         string
	Name         string
	IsCode       bool
	IsComment    bool
	IsWhitespace bool
}

// Common raw segment types.
const (
	TypeCode       = "code"
	TypeKeyword    = "keyword"
	TypeWhitespace = "whitespace"
	TypeNewline    = "newline"
	TypeComment    = "comment"
	TypeUnlexable  = "unlexable"
	TypeIndent     = "indent"
	TypeDedent     = "dedent"
	TypeUnparsable = "unparsable"
)

// =============================================================================
// Raw
// =============================================================================

// Raw is a leaf segment owning a slice of the source text.
type Raw struct {
	id    uint64
	raw   string
	pos   token.Position
	attrs Attrs
}

// NewRaw creates a raw segment at pos.
func NewRaw(raw string, pos token.Position, attrs Attrs) *Raw {
	if attrs.Name == "" {
		attrs.Name = attrs.Type
	}
	return &Raw{id: token.NextID(), raw: raw, pos: pos, attrs: attrs}
}

// NewWhitespace creates a whitespace segment, mostly used by fixes.
func NewWhitespace(raw string, pos token.Position) *Raw {
	return NewRaw(raw, pos, Attrs{Type: TypeWhitespace, Name: "whitespace", IsWhitespace: true})
}

// NewNewline creates a newline segment, mostly used by fixes.
func NewNewline(pos token.Position) *Raw {
	return NewRaw("\n", pos, Attrs{Type: TypeNewline, Name: "newline", IsWhitespace: true})
}

func (r *Raw) ID() uint64          { return r.id }
func (r *Raw) Raw() string         { return r.raw }
func (r *Raw) Pos() token.Position { return r.pos }
func (r *Raw) Type() string        { return r.attrs.Type }
func (r *Raw) Name() string        { return r.attrs.Name }
func (r *Raw) IsCode() bool        { return r.attrs.IsCode }
func (r *Raw) IsComment() bool     { return r.attrs.IsComment }
func (r *Raw) IsWhitespace() bool  { return r.attrs.IsWhitespace }
func (r *Raw) IsMeta() bool        { return false }
func (r *Raw) Segments() []Segment { return nil }
func (r *Raw) IsExpandable() bool  { return false }
func (r *Raw) Attrs() Attrs        { return r.attrs }

func (r *Raw) IsType(types ...string) bool {
	return typeIn(r.attrs.Type, types)
}

// As returns a copy of r with new attributes and a new identity. Raw
// parsers use it to turn a lexed token into a keyword, literal, etc.
func (r *Raw) As(attrs Attrs) *Raw {
	return NewRaw(r.raw, r.pos, attrs)
}

// Edit returns a copy of r holding different text.
func (r *Raw) Edit(raw string) *Raw {
	return NewRaw(raw, r.pos, r.attrs)
}

func (r *Raw) relocate(pos token.Position) Segment {
	c := *r
	c.pos = pos
	return &c
}

func (r *Raw) String() string {
	return r.attrs.Type + "(" + quoteRaw(r.raw) + ")"
}

// =============================================================================
// Meta
// =============================================================================

// Meta is a zero-width segment hinting at indentation structure.
type Meta struct {
	id     uint64
	pos    token.Position
	indent int
}

// NewIndent creates an indent meta at pos.
func NewIndent(pos token.Position) *Meta {
	return &Meta{id: token.NextID(), pos: pos, indent: 1}
}

// NewDedent creates a dedent meta at pos.
func NewDedent(pos token.Position) *Meta {
	return &Meta{id: token.NextID(), pos: pos, indent: -1}
}

func (m *Meta) ID() uint64          { return m.id }
func (m *Meta) Raw() string         { return "" }
func (m *Meta) Pos() token.Position { return m.pos }
func (m *Meta) IsCode() bool        { return false }
func (m *Meta) IsComment() bool     { return false }
func (m *Meta) IsWhitespace() bool  { return false }
func (m *Meta) IsMeta() bool        { return true }
func (m *Meta) Segments() []Segment { return nil }
func (m *Meta) IsExpandable() bool  { return false }

// Indent is +1 for an indent and -1 for a dedent.
func (m *Meta) Indent() int { return m.indent }

func (m *Meta) Type() string {
	if m.indent > 0 {
		return TypeIndent
	}
	return TypeDedent
}

func (m *Meta) Name() string { return m.Type() }

func (m *Meta) IsType(types ...string) bool {
	return typeIn(m.Type(), types)
}

func (m *Meta) relocate(pos token.Position) Segment {
	c := *m
	c.pos = pos
	return &c
}

func (m *Meta) String() string { return "[META] " + m.Type() }

// ---------- helpers ----------

func typeIn(t string, types []string) bool {
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// JoinRaw concatenates the raw text of segs.
func JoinRaw(segs []Segment) string {
	switch len(segs) {
	case 0:
		return ""
	case 1:
		return segs[0].Raw()
	}
	n := 0
	for _, s := range segs {
		n += len(s.Raw())
	}
	buf := make([]byte, 0, n)
	for _, s := range segs {
		buf = append(buf, s.Raw()...)
	}
	return string(buf)
}

// concat returns a fresh slice holding the segments of each part in order.
func concat(parts ...[]Segment) []Segment {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	if n == 0 {
		return nil
	}
	out := make([]Segment, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Concat returns a fresh slice holding the segments of each part in order.
func Concat(parts ...[]Segment) []Segment {
	return concat(parts...)
}
