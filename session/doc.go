// Package session houses concrete implementations of core.Store.
// The interfaces themselves (and the Bag type) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (HTTP glue, application code) from depending on
// concrete storage.
//
// The in-memory registry is the only backend: session data is deliberately
// volatile and is lost when the process exits.
package session
