// Package httpsession is a small cookie based session subsystem for net/http
// servers. It owns session ids (creation, idle expiry, invalidation) and
// reports every start and end to a core.SessionListener, which is how a
// session registry learns about sessions without knowing anything about HTTP.
package httpsession
