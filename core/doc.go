// Package core provides the foundational contracts shared by every sessionbag
// component. It defines:
//
//   - Bag (the per-session string key/value mapping) and its concurrent
//     implementation SessionBag
//   - EmptyBag, the immutable value handed out for unknown or ended sessions
//   - SessionStore / SessionListener, the lookup and lifecycle halves of a
//     session registry
//   - RequestContext, a request scoped view binding one session id to a store
//
// Concrete registries live in sibling packages (see package session) so that
// HTTP glue and application code depend only on these small interfaces.
package core
