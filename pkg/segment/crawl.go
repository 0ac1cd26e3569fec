package segment

// GetChild returns the first direct child whose type is one of types.
func GetChild(s Segment, types ...string) Segment {
	for _, c := range s.Segments() {
		if c.IsType(types...) {
			return c
		}
	}
	return nil
}

// GetChildren returns the direct children whose type is one of types.
func GetChildren(s Segment, types ...string) []Segment {
	var out []Segment
	for _, c := range s.Segments() {
		if c.IsType(types...) {
			out = append(out, c)
		}
	}
	return out
}

// RecursiveCrawl returns s and its descendants whose type is one of
// types, depth first, parents before children.
func RecursiveCrawl(s Segment, types ...string) []Segment {
	var out []Segment
	walk(s, func(seg Segment) {
		if seg.IsType(types...) {
			out = append(out, seg)
		}
	})
	return out
}

// RawSegments returns the leaves of s in source order, metas included.
func RawSegments(s Segment) []Segment {
	var out []Segment
	walk(s, func(seg Segment) {
		if len(seg.Segments()) == 0 {
			out = append(out, seg)
		}
	})
	return out
}

// Unparsables returns the unparsable regions below s. Regions nested
// inside another unparsable region are not reported separately.
func Unparsables(s Segment) []*Base {
	var out []*Base
	var visit func(Segment)
	visit = func(seg Segment) {
		if b, ok := seg.(*Base); ok && b.kind == UnparsableKind {
			out = append(out, b)
			return
		}
		for _, c := range seg.Segments() {
			visit(c)
		}
	}
	visit(s)
	return out
}

// TypeSet returns the types of s and all of its descendants.
func TypeSet(s Segment) map[string]bool {
	set := make(map[string]bool)
	walk(s, func(seg Segment) {
		set[seg.Type()] = true
	})
	return set
}

// Find returns the segment with the given identity, or nil.
func Find(root Segment, id uint64) Segment {
	var found Segment
	var visit func(Segment) bool
	visit = func(seg Segment) bool {
		if seg.ID() == id {
			found = seg
			return true
		}
		for _, c := range seg.Segments() {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(root)
	return found
}

func walk(s Segment, fn func(Segment)) {
	fn(s)
	for _, c := range s.Segments() {
		walk(c, fn)
	}
}
