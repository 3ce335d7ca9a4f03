// Package httpapi exposes the current request's session bag over HTTP.
//
// Routes (mounted by Handler.Register):
//
//	GET    /data         all entries as a JSON object
//	GET    /data/{key}   {"key": ..., "value": ...} or 404
//	PUT    /data/{key}   raw request body becomes the value
//	DELETE /data/{key}   remove the entry
//
// The session id is taken from the request context (see core.WithSessionID),
// so the handler must sit behind a session middleware.
package httpapi
