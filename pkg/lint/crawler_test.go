package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func TestCrawl_VisitsParentsFirst(t *testing.T) {
	tree := parseSQL(t, "SELECT a FROM t")

	var visited []segment.Segment
	rule := ruleFunc("TS01", func(ctx *RuleContext) *Result {
		visited = append(visited, ctx.Segment)
		return nil
	})
	crawl(rule, tree, nil, nil)

	require.NotEmpty(t, visited)
	assert.Same(t, tree, visited[0], "root first")
	for _, s := range visited {
		assert.False(t, s.IsMeta(), "metas are not visited")
	}

	var leavesSeen []string
	for _, s := range visited {
		if len(s.Segments()) == 0 {
			leavesSeen = append(leavesSeen, s.Raw())
		}
	}
	assert.Equal(t, "SELECT a FROM t", strings.Join(leavesSeen, ""), "leaves in source order")
}

func TestCrawl_RawContext(t *testing.T) {
	tree := parseSQL(t, "SELECT a FROM t")

	type seen struct{ before, after int }
	got := map[string]seen{}
	rule := ruleFunc("TS01", func(ctx *RuleContext) *Result {
		if len(ctx.Segment.Segments()) == 0 && ctx.Segment.IsCode() {
			got[ctx.Segment.Raw()] = seen{len(ctx.RawStack), len(ctx.RawPost)}
		}
		return nil
	})
	crawl(rule, tree, nil, nil)

	// Leaves: SELECT, " ", a, " ", FROM, " ", t
	assert.Equal(t, seen{0, 6}, got["SELECT"])
	assert.Equal(t, seen{2, 4}, got["a"])
	assert.Equal(t, seen{6, 0}, got["t"])
}

func TestCrawl_ParentStackAndSiblings(t *testing.T) {
	tree := parseSQL(t, "SELECT a FROM t")

	rule := ruleFunc("TS01", func(ctx *RuleContext) *Result {
		if ctx.Segment.Raw() != "a" || len(ctx.Segment.Segments()) > 0 {
			return nil
		}
		require.NotEmpty(t, ctx.ParentStack)
		assert.Same(t, tree, ctx.ParentStack[0])
		assert.True(t, ctx.InType("select_clause"))
		assert.False(t, ctx.InType("from_clause"))
		assert.False(t, ctx.AtLineStart())
		assert.Equal(t, " ", ctx.PrevRaw().Raw())
		assert.Equal(t, " ", ctx.NextRaw().Raw())
		return &Result{Anchor: ctx.Segment}
	})
	assert.Len(t, crawl(rule, tree, nil, nil), 1)
}

func TestCrawl_Memory(t *testing.T) {
	tree := parseSQL(t, "SELECT a, b, c FROM t")

	var memories []any
	rule := ruleFunc("TS01", func(ctx *RuleContext) *Result {
		if !ctx.Segment.IsType("comma") {
			return nil
		}
		memories = append(memories, ctx.Memory)
		n, _ := ctx.Memory.(int)
		if n == 0 {
			// The first comma only sets memory.
			return &Result{Memory: 1}
		}
		return &Result{Anchor: ctx.Segment, Memory: n + 1}
	})
	results := crawl(rule, tree, nil, nil)

	assert.Equal(t, []any{nil, 1}, memories)
	require.Len(t, results, 1, "memory-only results are dropped")
	assert.Equal(t, 2, results[0].Memory)
}

func TestCrawl_Options(t *testing.T) {
	tree := parseSQL(t, "SELECT 1")
	opts := &struct{ N int }{N: 3}

	var got any
	crawl(ruleFunc("TS01", func(ctx *RuleContext) *Result {
		got = ctx.Options
		return nil
	}), tree, nil, opts)
	assert.Same(t, opts, got)
}
