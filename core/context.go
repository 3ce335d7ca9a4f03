package core

import (
	"context"

	"github.com/hupe1980/sessionbag/logging"
)

type ctxKeySessionID struct{}

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID{}, sessionID)
}

// SessionIDFromContext returns the session id bound by WithSessionID or
// ErrNoSession.
func SessionIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ctxKeySessionID{}).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// RequestContext is a request scoped view of one session's bag. It looks the
// bag up on every call instead of caching it, so a session that ends mid
// request is observed immediately.
type RequestContext struct {
	sessionID string
	store     SessionStore

	*loggerAdapter
}

// NewRequestContext binds sessionID to store.
func NewRequestContext(sessionID string, store SessionStore, logger logging.Logger) *RequestContext {
	return &RequestContext{
		sessionID:     sessionID,
		store:         store,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// RequestContextFrom builds a RequestContext from the session id bound to ctx.
func RequestContextFrom(ctx context.Context, store SessionStore, logger logging.Logger) (*RequestContext, error) {
	id, err := SessionIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewRequestContext(id, store, logger), nil
}

// SessionID returns the bound session id.
func (rc *RequestContext) SessionID() string { return rc.sessionID }

// Bag returns the session's current bag.
func (rc *RequestContext) Bag() Bag { return rc.store.Find(rc.sessionID) }

// Get reads key from the session's bag.
func (rc *RequestContext) Get(key string) (string, bool) {
	return rc.Bag().Get(key)
}

// Put writes key into the session's bag. It reports false when the session is
// no longer active and the write was discarded.
func (rc *RequestContext) Put(key, value string) bool {
	bag := rc.Bag()
	if bag.ReadOnly() {
		rc.LogDebug("discarding write for inactive session", "session_id", rc.sessionID, "key", key)
		return false
	}
	bag.Put(key, value)
	return true
}

// Remove deletes key from the session's bag. It reports false when the
// session is no longer active.
func (rc *RequestContext) Remove(key string) bool {
	bag := rc.Bag()
	if bag.ReadOnly() {
		rc.LogDebug("discarding remove for inactive session", "session_id", rc.sessionID, "key", key)
		return false
	}
	bag.Remove(key)
	return true
}
