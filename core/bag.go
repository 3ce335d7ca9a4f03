package core

import (
	"maps"
	"slices"
	"sync"
)

// Bag is the per-session string key/value mapping. Implementations are safe
// for concurrent use; each single-key operation is atomic and concurrent writes
// to the same key resolve last-write-wins. There are no multi-key transactions.
//
// Contract:
//   - A Bag obtained from a SessionStore is valid for one request only. Once the
//     session ends the Bag is detached: it keeps working for whoever still holds
//     it but is no longer reachable through the store.
//   - Never put secrets in a Bag. Anything that knows the session id can read
//     them. This is a documented contract; nothing enforces it.
type Bag interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Put stores value under key, replacing any previous value.
	Put(key, value string)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Len returns the number of entries.
	Len() int
	// Keys returns the current keys in ascending order.
	Keys() []string
	// Snapshot returns a copy of all entries safe for caller mutation.
	Snapshot() map[string]string
	// ReadOnly reports whether writes are discarded (see EmptyBag).
	ReadOnly() bool
}

// SessionBag is the concurrent Bag registered for an active session.
type SessionBag struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewSessionBag returns an empty, writable bag.
func NewSessionBag() *SessionBag {
	return &SessionBag{entries: make(map[string]string, 8)}
}

// Get returns the value and existence flag for key.
func (b *SessionBag) Get(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.entries[key]
	return v, ok
}

// Put sets key to value.
func (b *SessionBag) Put(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = value
}

// Remove deletes key if present.
func (b *SessionBag) Remove(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
}

// Len returns the number of entries.
func (b *SessionBag) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Keys returns the keys sorted ascending.
func (b *SessionBag) Keys() []string {
	b.mu.RLock()
	keys := slices.Collect(maps.Keys(b.entries))
	b.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Snapshot returns a defensive copy of the entries.
func (b *SessionBag) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.entries)
}

// ReadOnly always returns false.
func (b *SessionBag) ReadOnly() bool { return false }

// emptyBag holds no state at all, so a write through one caller can never be
// observed by another.
type emptyBag struct{}

// EmptyBag returns the bag handed out for every unknown or ended session.
// Reads see nothing and writes are silently discarded.
func EmptyBag() Bag { return emptyBag{} }

func (emptyBag) Get(string) (string, bool) { return "", false }

func (emptyBag) Put(string, string) {}

func (emptyBag) Remove(string) {}

func (emptyBag) Len() int { return 0 }

func (emptyBag) Keys() []string { return []string{} }

func (emptyBag) Snapshot() map[string]string { return map[string]string{} }

func (emptyBag) ReadOnly() bool { return true }
