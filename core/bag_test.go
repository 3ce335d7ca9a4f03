package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Bag = (*SessionBag)(nil)

func TestSessionBag_PutGetRemove(t *testing.T) {
	b := NewSessionBag()
	assert.False(t, b.ReadOnly())

	b.Put("b", "2")
	b.Put("a", "1")
	b.Put("a", "one")

	v, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"a", "b"}, b.Keys())

	b.Remove("a")
	b.Remove("missing")
	_, ok = b.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, b.Len())
}

func TestSessionBag_SnapshotIsolation(t *testing.T) {
	b := NewSessionBag()
	b.Put("k", "v")

	snap := b.Snapshot()
	snap["k"] = "changed"
	snap["extra"] = "x"

	v, _ := b.Get("k")
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, b.Len())
}

func TestEmptyBag_DiscardsWrites(t *testing.T) {
	EmptyBag().Put("k", "v")
	EmptyBag().Remove("k")

	_, ok := EmptyBag().Get("k")
	assert.False(t, ok)
	assert.True(t, EmptyBag().ReadOnly())
	assert.Equal(t, 0, EmptyBag().Len())
	assert.Empty(t, EmptyBag().Keys())

	snap := EmptyBag().Snapshot()
	snap["k"] = "v"
	assert.Empty(t, EmptyBag().Snapshot())

	// Every call yields the same stateless value; there is nothing to swap out.
	assert.Equal(t, EmptyBag(), EmptyBag())
}

func TestSessionBag_ConcurrentAccess(t *testing.T) {
	b := NewSessionBag()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		key := fmt.Sprintf("k%d", i)
		go func() { defer wg.Done(); b.Put(key, "v") }()
		go func() { defer wg.Done(); _, _ = b.Get(key) }()
		go func() { defer wg.Done(); _ = b.Snapshot(); _ = b.Keys() }()
	}
	wg.Wait()
	assert.Equal(t, 50, b.Len())
}
