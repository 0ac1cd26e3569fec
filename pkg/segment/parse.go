package segment

import (
	"fmt"
	"log/slog"
)

// ExpectedNothing labels the remainder of a partial match.
const ExpectedNothing = "Nothing..."

// Parse structures the children of b with its parse grammar (falling back
// to the match grammar) and then expands every expandable child while the
// recurse budget allows. b itself is left untouched; the result keeps b's
// identity and position.
func (b *Base) Parse(ctx *ParseContext) (*Base, error) {
	ctx.ClearBlacklist()

	segs := b.segments
	if g := b.kind.parseGrammar(); g != nil {
		// The grammar places its own metas.
		segs = withoutMetas(segs)
		m, err := MatchWith(g, segs, ctx.withMatchSegment(b.kind.Name))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", b.kind.Name, err)
		}
		switch {
		case m.IsComplete():
			segs = m.Matched
		case m.HasMatch():
			segs = concat(m.Matched, []Segment{NewUnparsable(m.Unmatched, ExpectedNothing)})
		default:
			segs = []Segment{NewUnparsable(segs, Expected(g, ctx.Dialect))}
		}
	} else {
		ctx.log().Debug("no grammar, going straight to expansion", slog.String("segment", b.kind.Name))
	}

	if ctx.Recurse < 0 || ctx.Recurse > 1 {
		expanded, err := Expand(segs, ctx.deeperParse())
		if err != nil {
			return nil, err
		}
		segs = expanded
	}
	return b.withSegments(segs), nil
}

// Expand parses each expandable segment of segs.
func Expand(segs []Segment, ctx *ParseContext) ([]Segment, error) {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		b, ok := s.(*Base)
		if !ok || !b.IsExpandable() {
			out = append(out, s)
			continue
		}
		if ctx.Verbosity > 1 {
			ctx.log().Debug("expanding",
				slog.Int("parse_depth", ctx.ParseDepth),
				slog.String("segment", b.kind.Name),
				slog.String("raw", curtail(b.Raw(), 40)))
		}
		parsed, err := b.Parse(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	if JoinRaw(segs) != JoinRaw(out) {
		return nil, fmt.Errorf("expanding: %w", ErrDroppedSegments)
	}
	return out, nil
}

func withoutMetas(segs []Segment) []Segment {
	for _, s := range segs {
		if s.IsMeta() {
			out := make([]Segment, 0, len(segs))
			for _, s := range segs {
				if !s.IsMeta() {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return segs
}

func curtail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
