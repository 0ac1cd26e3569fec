package grammar

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// RefGrammar is a late-bound reference to a dialect entry.
type RefGrammar struct {
	Name     string
	optional bool
	resolved atomic.Pointer[resolvedRef]
}

type resolvedRef struct {
	dialect segment.Resolver
	target  Matchable
}

// Ref refers to the dialect entry called name.
func Ref(name string) *RefGrammar { return &RefGrammar{Name: name} }

// KeywordName is the dialect entry name of the keyword segment for word:
// "group" becomes "GroupKeywordSegment".
func KeywordName(word string) string {
	w := strings.ToLower(word)
	if w == "" {
		return "KeywordSegment"
	}
	return strings.ToUpper(w[:1]) + w[1:] + "KeywordSegment"
}

// RefKeyword refers to the keyword segment for word.
func RefKeyword(word string) *RefGrammar { return Ref(KeywordName(word)) }

// OptionalRef is an optional Ref.
func OptionalRef(name string) *RefGrammar { return &RefGrammar{Name: name, optional: true} }

func (r *RefGrammar) resolve(d segment.Resolver) (Matchable, error) {
	if d == nil {
		return nil, fmt.Errorf("resolving %s: no dialect in parse context", r.Name)
	}
	if c := r.resolved.Load(); c != nil && c.dialect == d {
		return c.target, nil
	}
	target, err := d.Ref(r.Name)
	if err != nil {
		return nil, err
	}
	r.resolved.Store(&resolvedRef{dialect: d, target: target})
	return target, nil
}

// Match consults the negative-match cache before matching the target and
// records the input there when the target does not match.
func (r *RefGrammar) Match(segs []segment.Segment, ctx *segment.ParseContext) (segment.MatchResult, error) {
	if len(segs) == 0 {
		return segment.FromEmpty(), nil
	}
	target, err := r.resolve(ctx.Dialect)
	if err != nil {
		return segment.MatchResult{}, err
	}
	if ctx.Blacklisted(r.Name, segs) {
		return segment.FromUnmatched(segs), nil
	}
	m, err := match(target, segs, ctx.WithMatchSegment(r.Name))
	if err != nil {
		return segment.MatchResult{}, err
	}
	if !m.HasMatch() {
		ctx.Blacklist(r.Name, segs)
	}
	return m, nil
}

// Simple delegates to the target. References already being resolved are
// treated as not simple.
func (r *RefGrammar) Simple(ctx *segment.ParseContext, crumbs []string) ([]string, bool) {
	for _, c := range crumbs {
		if c == r.Name {
			return nil, false
		}
	}
	target, err := r.resolve(ctx.Dialect)
	if err != nil {
		return nil, false
	}
	return target.Simple(ctx, append(crumbs[:len(crumbs):len(crumbs)], r.Name))
}

func (r *RefGrammar) IsOptional() bool { return r.optional }

func (r *RefGrammar) ExpectedString(d segment.Resolver, calledFrom map[string]bool) string {
	if calledFrom[r.Name] || d == nil {
		return r.Name
	}
	target, err := r.resolve(d)
	if err != nil {
		return r.Name
	}
	calledFrom[r.Name] = true
	return target.ExpectedString(d, calledFrom)
}

func (r *RefGrammar) String() string { return "Ref(" + r.Name + ")" }
