package core

// SessionStore resolves the Bag registered for a session id.
type SessionStore interface {
	// Find returns the bag for sessionID, or EmptyBag when no such session is
	// active. It never returns nil.
	Find(sessionID string) Bag
}

// SessionListener receives lifecycle notifications from the host session
// subsystem. These are the only two calls that change which bags exist.
type SessionListener interface {
	// OnSessionStart registers a fresh, empty bag for sessionID.
	OnSessionStart(sessionID string)
	// OnSessionEnd drops the bag for sessionID. Unknown ids are ignored.
	OnSessionEnd(sessionID string)
}

// Store is a full session registry: lookup plus lifecycle.
type Store interface {
	SessionStore
	SessionListener
}
