package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// crawler walks a tree for one rule: depth first, each parent before its
// children, threading the rule's memory from call to call.
type crawler struct {
	rule    RuleDef
	dialect *dialect.Dialect
	options any

	raws    []segment.Segment
	offset  int // index in raws of the next leaf to visit
	memory  any
	results []*Result
}

// crawl runs rule over tree and returns every result that has an anchor.
func crawl(rule RuleDef, tree segment.Segment, d *dialect.Dialect, options any) []*Result {
	c := &crawler{
		rule:    rule,
		dialect: d,
		options: options,
		raws:    leaves(tree),
	}
	c.visit(tree, nil, nil, nil)
	return c.results
}

func (c *crawler) visit(seg segment.Segment, parents, pre, post []segment.Segment) {
	if seg.IsMeta() {
		return
	}
	ctx := &RuleContext{
		Segment:      seg,
		ParentStack:  parents,
		SiblingsPre:  pre,
		SiblingsPost: post,
		RawStack:     c.raws[:c.offset],
		RawPost:      c.raws[c.offset:],
		Memory:       c.memory,
		Dialect:      c.dialect,
		Options:      c.options,
	}
	children := seg.Segments()
	if len(children) == 0 {
		// A leaf is not part of its own context.
		ctx.RawPost = c.raws[c.offset+1:]
	}

	if res := c.rule.Crawl(ctx); res != nil {
		if res.Memory != nil {
			c.memory = res.Memory
		}
		if res.Anchor != nil {
			c.results = append(c.results, res)
		}
	}

	if len(children) == 0 {
		c.offset++
		return
	}
	stack := append(parents[:len(parents):len(parents)], seg)
	for i, child := range children {
		c.visit(child, stack, children[:i], children[i+1:])
	}
}

// leaves returns the non-meta leaves of tree in order.
func leaves(tree segment.Segment) []segment.Segment {
	var out []segment.Segment
	for _, s := range segment.RawSegments(tree) {
		if !s.IsMeta() {
			out = append(out, s)
		}
	}
	return out
}
