package httpsession

import "fmt"

var (
	// ErrInvalidOptions is returned by NewManager for unusable options.
	ErrInvalidOptions = fmt.Errorf("invalid session manager options")
)
