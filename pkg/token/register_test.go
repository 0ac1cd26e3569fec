package token

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUnique(t *testing.T) {
	id1 := NextID()
	id2 := NextID()

	assert.NotEqual(t, id1, id2, "successive IDs should differ")
	assert.Greater(t, id2, id1)
}

func TestNextIDConcurrent(t *testing.T) {
	const numGoroutines = 100
	var wg sync.WaitGroup
	ids := make([]uint64, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ids[idx] = NextID()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, numGoroutines)
	for _, id := range ids {
		require.False(t, seen[id], "duplicate ID %d", id)
		seen[id] = true
	}
}
