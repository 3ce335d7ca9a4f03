package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore is a minimal SessionStore for exercising RequestContext.
type mapStore map[string]Bag

func (m mapStore) Find(id string) Bag {
	if b, ok := m[id]; ok {
		return b
	}
	return EmptyBag()
}

func TestSessionIDFromContext(t *testing.T) {
	_, err := SessionIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = SessionIDFromContext(WithSessionID(context.Background(), ""))
	assert.ErrorIs(t, err, ErrNoSession)

	id, err := SessionIDFromContext(WithSessionID(context.Background(), "s1"))
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
}

func TestRequestContext_ResolvesBagPerCall(t *testing.T) {
	store := mapStore{"s1": NewSessionBag()}
	rc, err := RequestContextFrom(WithSessionID(context.Background(), "s1"), store, nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", rc.SessionID())

	assert.True(t, rc.Put("k", "v"))
	v, ok := rc.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// Session ends mid request: subsequent writes are refused.
	delete(store, "s1")
	assert.False(t, rc.Put("k", "w"))
	assert.False(t, rc.Remove("k"))
	_, ok = rc.Get("k")
	assert.False(t, ok)
	assert.True(t, rc.Bag().ReadOnly())
}

func TestRequestContextFrom_NoSession(t *testing.T) {
	_, err := RequestContextFrom(context.Background(), mapStore{}, nil)
	assert.ErrorIs(t, err, ErrNoSession)
}
