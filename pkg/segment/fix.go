package segment

import "github.com/leapstack-labs/leaplint/pkg/token"

// FixType is the kind of edit a fix performs.
type FixType string

// Fix types.
const (
	FixCreate FixType = "create" // insert Edit before Anchor
	FixEdit   FixType = "edit"   // replace Anchor with Edit
	FixDelete FixType = "delete" // remove Anchor
)

// Fix is an edit anchored on a segment of the tree. Anchors are compared
// by identity.
type Fix struct {
	Type   FixType
	Anchor Segment
	Edit   []Segment
}

// NewDelete removes anchor.
func NewDelete(anchor Segment) Fix {
	return Fix{Type: FixDelete, Anchor: anchor}
}

// NewEdit replaces anchor with edit.
func NewEdit(anchor Segment, edit ...Segment) Fix {
	return Fix{Type: FixEdit, Anchor: anchor, Edit: edit}
}

// NewCreate inserts edit immediately before anchor.
func NewCreate(anchor Segment, edit ...Segment) Fix {
	return Fix{Type: FixCreate, Anchor: anchor, Edit: edit}
}

// ApplyFixes returns a copy of root with fixes applied and every position
// realigned, together with the fixes whose anchor was not found. Meta
// segments are never fix targets. Fixes sharing an anchor apply in order.
func ApplyFixes(root Segment, fixes []Fix) (Segment, []Fix) {
	b, ok := root.(*Base)
	if !ok || len(fixes) == 0 {
		return root, fixes
	}
	pending := append([]Fix(nil), fixes...)
	rebuilt := applyFixes(b, &pending)
	if rebuilt == nil {
		return root, pending
	}
	return Realign(rebuilt), pending
}

// applyFixes rebuilds b with the pending fixes that anchor on its
// descendants, consuming them. It returns nil when every child was
// deleted.
func applyFixes(b *Base, pending *[]Fix) *Base {
	if len(*pending) == 0 {
		return b
	}
	var buf []Segment
	for _, seg := range b.segments {
		if seg.IsMeta() {
			buf = append(buf, seg)
			continue
		}
		buf = append(buf, takeFixes(seg, pending)...)
	}

	out := make([]Segment, 0, len(buf))
	for _, seg := range buf {
		child, ok := seg.(*Base)
		if !ok {
			out = append(out, seg)
			continue
		}
		if fixed := applyFixes(child, pending); fixed != nil {
			out = append(out, fixed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return b.withSegments(out)
}

// takeFixes returns what seg becomes once the fixes anchored on it are
// applied, removing those fixes from pending.
func takeFixes(seg Segment, pending *[]Fix) []Segment {
	var before []Segment
	keep := true
	remaining := (*pending)[:0:0]
	for _, f := range *pending {
		if f.Anchor == nil || f.Anchor.ID() != seg.ID() {
			remaining = append(remaining, f)
			continue
		}
		switch f.Type {
		case FixCreate:
			before = append(before, f.Edit...)
		case FixEdit:
			if keep {
				before = append(before, f.Edit...)
			}
			keep = false
		case FixDelete:
			keep = false
		}
	}
	*pending = remaining
	if keep {
		return append(before, seg)
	}
	return before
}

// Realign recomputes the position of every descendant of root from the
// raw text of the leaves, keeping root's own position. Each segment keeps
// its statement index.
func Realign(root Segment) Segment {
	b, ok := root.(*Base)
	if !ok {
		return root
	}
	return realign(b, b.pos)
}

func realign(b *Base, pos token.Position) *Base {
	running := pos
	out := make([]Segment, 0, len(b.segments))
	for _, seg := range b.segments {
		running.StatementIndex = seg.Pos().StatementIndex
		var moved Segment
		if child, ok := seg.(*Base); ok {
			moved = realign(child, running)
		} else {
			moved = seg.relocate(running)
		}
		running = running.AdvanceBy(moved.Raw(), 0)
		out = append(out, moved)
	}
	c := *b
	c.pos = pos
	c.segments = out
	c.raw = JoinRaw(out)
	return &c
}
