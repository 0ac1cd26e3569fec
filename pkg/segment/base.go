package segment

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Kind describes a composite segment: its type and the grammars used to
// claim tokens (MatchGrammar) and to structure them once claimed
// (ParseGrammar). A Kind is itself Matchable: a successful match wraps
// the claimed tokens in a composite of the kind.
type Kind struct {
	Name         string // dialect symbol, e.g. "SelectStatementSegment"
	Type         string // e.g. "select_statement"
	MatchGrammar Matchable
	ParseGrammar Matchable
}

// UnparsableKind is the kind of regions the grammar could not consume.
var UnparsableKind = &Kind{Name: "UnparsableSegment", Type: TypeUnparsable}

func (k *Kind) parseGrammar() Matchable {
	if k.ParseGrammar != nil {
		return k.ParseGrammar
	}
	return k.MatchGrammar
}

// Match claims a span of segs for this kind.
func (k *Kind) Match(segs []Segment, ctx *ParseContext) (MatchResult, error) {
	if len(segs) > 0 {
		if b, ok := segs[0].(*Base); ok && b.kind == k {
			return MatchResult{Matched: segs[:1:1], Unmatched: segs[1:]}, nil
		}
	}
	if k.MatchGrammar == nil {
		return MatchResult{}, fmt.Errorf("%s: %w", k.Name, ErrNoMatchGrammar)
	}
	m, err := MatchWith(k.MatchGrammar, segs, ctx.withMatchSegment(k.Name))
	if err != nil {
		return MatchResult{}, err
	}
	if !m.HasMatch() {
		return FromUnmatched(segs), nil
	}
	return MatchResult{Matched: []Segment{New(k, m.Matched)}, Unmatched: m.Unmatched}, nil
}

// Simple delegates to the match grammar.
func (k *Kind) Simple(ctx *ParseContext, crumbs []string) ([]string, bool) {
	if k.MatchGrammar == nil {
		return nil, false
	}
	return k.MatchGrammar.Simple(ctx, crumbs)
}

func (k *Kind) IsOptional() bool { return false }

func (k *Kind) ExpectedString(r Resolver, calledFrom map[string]bool) string {
	if k.MatchGrammar == nil {
		return k.Type
	}
	return k.MatchGrammar.ExpectedString(r, calledFrom)
}

func (k *Kind) String() string { return k.Name }

// =============================================================================
// Base
// =============================================================================

// Base is a composite segment. It always owns at least one child.
type Base struct {
	id       uint64
	kind     *Kind
	segments []Segment
	pos      token.Position
	expected string
	raw      string // joined raw of segments, kept in step with them
}

// New creates a composite of kind k positioned at its first child.
func New(k *Kind, children []Segment) *Base {
	if len(children) == 0 {
		panic("segment: composite " + k.Name + " created without children")
	}
	return NewAt(k, children, children[0].Pos())
}

// NewAt creates a composite of kind k at an explicit position.
func NewAt(k *Kind, children []Segment, pos token.Position) *Base {
	if len(children) == 0 {
		panic("segment: composite " + k.Name + " created without children")
	}
	return &Base{id: token.NextID(), kind: k, segments: children, pos: pos, raw: JoinRaw(children)}
}

// NewUnparsable wraps children in an unparsable region.
func NewUnparsable(children []Segment, expected string) *Base {
	b := New(UnparsableKind, children)
	b.expected = expected
	return b
}

func (b *Base) ID() uint64          { return b.id }
func (b *Base) Pos() token.Position { return b.pos }
func (b *Base) Type() string        { return b.kind.Type }
func (b *Base) Name() string        { return b.kind.Name }
func (b *Base) Kind() *Kind         { return b.kind }
func (b *Base) Segments() []Segment { return b.segments }
func (b *Base) IsMeta() bool        { return false }
func (b *Base) IsWhitespace() bool  { return false }

// Expected describes what the grammar wanted where this unparsable region
// sits. Empty for other kinds.
func (b *Base) Expected() string { return b.expected }

func (b *Base) Raw() string { return b.raw }

func (b *Base) IsType(types ...string) bool {
	return typeIn(b.kind.Type, types)
}

// IsCode is true if any child is code.
func (b *Base) IsCode() bool {
	for _, s := range b.segments {
		if s.IsCode() {
			return true
		}
	}
	return false
}

// IsComment is true if every child is a comment.
func (b *Base) IsComment() bool {
	for _, s := range b.segments {
		if !s.IsComment() {
			return false
		}
	}
	return true
}

func (b *Base) IsExpandable() bool {
	if b.kind.parseGrammar() != nil {
		return true
	}
	for _, s := range b.segments {
		if s.IsExpandable() {
			return true
		}
	}
	return false
}

// EndPos returns the position just past the last character of b.
func (b *Base) EndPos() token.Position {
	return b.pos.AdvanceBy(b.Raw(), 0)
}

// withSegments returns a copy of b with a new child list, keeping its
// identity.
func (b *Base) withSegments(children []Segment) *Base {
	c := *b
	c.segments = children
	c.raw = JoinRaw(children)
	return &c
}

func (b *Base) relocate(pos token.Position) Segment {
	c := *b
	c.pos = pos
	return &c
}

func (b *Base) String() string {
	return fmt.Sprintf("<%s: (%s)>", b.kind.Name, b.pos)
}
