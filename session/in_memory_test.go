package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/sessionbag/core"
	"github.com/hupe1980/sessionbag/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.Store = (*InMemoryStore)(nil)

func TestInMemoryStore_StartPutGetEnd(t *testing.T) {
	s := NewInMemoryStore()

	s.OnSessionStart("A")
	s.Put("A", "role", "admin")

	v, ok := s.Get("A", "role")
	require.True(t, ok)
	assert.Equal(t, "admin", v)

	s.OnSessionEnd("A")
	_, ok = s.Get("A", "role")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestInMemoryStore_UnknownSession(t *testing.T) {
	s := NewInMemoryStore()

	_, ok := s.Get("unknown-id", "x")
	assert.False(t, ok)

	bag := s.Find("unknown-id")
	require.NotNil(t, bag)
	assert.True(t, bag.ReadOnly())
	assert.Equal(t, 0, bag.Len())

	// Writes through one unknown id must never surface anywhere else.
	s.Put("unknown-id", "x", "leak")
	s.Find("other-unknown").Put("y", "leak")
	_, ok = s.Get("unknown-id", "x")
	assert.False(t, ok)
	_, ok = s.Find("third-unknown").Get("y")
	assert.False(t, ok)

	s.OnSessionStart("B")
	assert.Equal(t, 0, s.Find("B").Len())
}

func TestInMemoryStore_SessionIsolation(t *testing.T) {
	s := NewInMemoryStore()
	s.OnSessionStart("A")
	s.OnSessionStart("B")

	s.Put("A", "k", "1")
	s.Put("B", "k", "2")

	a, _ := s.Get("A", "k")
	b, _ := s.Get("B", "k")
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)
	assert.NotSame(t, s.Find("A"), s.Find("B"))
	assert.Equal(t, 2, s.Len())
}

func TestInMemoryStore_EndIsIdempotent(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	s := NewInMemoryStore(func(o *Options) { o.Logger = logger })

	s.OnSessionStart("A")
	s.Put("A", "k", "v")
	s.OnSessionEnd("A")
	s.OnSessionEnd("A")
	s.OnSessionEnd("never-started")

	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Find("A").ReadOnly())
	assert.Empty(t, logger.Entries("WARN"))
}

func TestInMemoryStore_EndDetachesHeldBag(t *testing.T) {
	s := NewInMemoryStore()
	s.OnSessionStart("A")
	held := s.Find("A")

	s.OnSessionEnd("A")

	// The holder keeps a working, detached bag.
	held.Put("k", "v")
	v, ok := held.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// The store no longer reaches it, even after a restart of the same id.
	_, ok = s.Get("A", "k")
	assert.False(t, ok)
	s.OnSessionStart("A")
	_, ok = s.Get("A", "k")
	assert.False(t, ok)
}

func TestInMemoryStore_DuplicateStartReplacesAndWarns(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	s := NewInMemoryStore(func(o *Options) { o.Logger = logger })

	s.OnSessionStart("A")
	s.Put("A", "k", "old")
	s.OnSessionStart("A")

	_, ok := s.Get("A", "k")
	assert.False(t, ok, "last start wins with an empty bag")
	assert.Equal(t, 1, s.Len())

	warns := logger.Entries("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Args, "A")
}

func TestInMemoryStore_NilLoggerOption(t *testing.T) {
	s := NewInMemoryStore(func(o *Options) { o.Logger = nil })
	assert.NotPanics(t, func() {
		s.OnSessionStart("A")
		s.OnSessionStart("A")
		s.OnSessionEnd("A")
	})
}

func TestInMemoryStore_ConcurrentDistinctKeys(t *testing.T) {
	s := NewInMemoryStore()
	s.OnSessionStart("A")

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Put("A", fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		v, ok := s.Get("A", fmt.Sprintf("k%d", i))
		require.True(t, ok, "key k%d lost", i)
		assert.Equal(t, fmt.Sprintf("v%d", i), v)
	}
	assert.Equal(t, n, s.Find("A").Len())
}

func TestInMemoryStore_ConcurrentLifecycle(t *testing.T) {
	s := NewInMemoryStore()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			s.OnSessionStart(id)
			s.Put(id, "owner", id)
			if v, ok := s.Get(id, "owner"); !ok || v != id {
				t.Errorf("session %s saw %q", id, v)
			}
			_ = s.Find(fmt.Sprintf("s%d", (i+1)%n)).Keys()
			if i%2 == 0 {
				s.OnSessionEnd(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n/2, s.Len())
	for i := 0; i < n; i++ {
		_, ok := s.Get(fmt.Sprintf("s%d", i), "owner")
		assert.Equal(t, i%2 == 1, ok, "session s%d", i)
	}
}

func TestInMemoryStore_FindAfterEndObservesRemoval(t *testing.T) {
	s := NewInMemoryStore()
	for round := 0; round < 50; round++ {
		id := fmt.Sprintf("r%d", round)
		s.OnSessionStart(id)

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.OnSessionEnd(id)
		}()
		<-done

		assert.True(t, s.Find(id).ReadOnly(), "round %d", round)
	}
}
