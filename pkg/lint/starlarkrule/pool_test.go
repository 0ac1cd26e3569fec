package starlarkrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadPool(t *testing.T) {
	p := newThreadPool(1)
	assert.Equal(t, 0, p.size())

	a := p.get("a.star")
	assert.Equal(t, "a.star", a.Name)
	b := p.get("b.star")

	p.put(a)
	p.put(b)
	assert.Equal(t, 1, p.size(), "pool keeps at most maxSize threads")

	reused := p.get("c.star")
	assert.Same(t, a, reused)
	assert.Equal(t, "c.star", reused.Name)
	assert.Equal(t, 0, p.size())
}

func TestNewThreadPool_DefaultSize(t *testing.T) {
	assert.Equal(t, 8, newThreadPool(0).maxSize)
}
