package core

import "fmt"

var (
	// ErrNoSession is returned when a context.Context carries no session id.
	ErrNoSession = fmt.Errorf("no session bound to context")
)
