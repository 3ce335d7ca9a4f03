package testutil

import "github.com/hupe1980/sessionbag/core"

// BagBuilder provides a fluent helper for constructing bags in tests.
// Example:
//
//	bag := NewBagBuilder().Entry("role", "admin").Build()
type BagBuilder struct {
	entries map[string]string
}

// NewBagBuilder creates a builder for an empty bag.
func NewBagBuilder() *BagBuilder {
	return &BagBuilder{entries: map[string]string{}}
}

// Entry sets or overwrites a key/value pair on the resulting bag (chainable).
func (b *BagBuilder) Entry(key, value string) *BagBuilder {
	b.entries[key] = value
	return b
}

// Entries merges the provided pairs into the resulting bag (chainable).
func (b *BagBuilder) Entries(kv map[string]string) *BagBuilder {
	for k, v := range kv {
		b.entries[k] = v
	}
	return b
}

// Build returns a *core.SessionBag pre-populated with the configured entries.
func (b *BagBuilder) Build() *core.SessionBag {
	bag := core.NewSessionBag()
	for k, v := range b.entries {
		bag.Put(k, v)
	}
	return bag
}
