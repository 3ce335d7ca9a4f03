package httpapi

import "fmt"

var (
	errKeyNotFound   = fmt.Errorf("key not found")
	errValueTooLarge = fmt.Errorf("value too large")
	errSessionEnded  = fmt.Errorf("session has ended")
	errRateLimited   = fmt.Errorf("rate limit exceeded")
)
