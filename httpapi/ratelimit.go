package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/hupe1980/sessionbag/logging"
)

// NewLimiter returns a token bucket allowing rps requests per second with the
// given burst, or nil when rps is not positive (rate limiting disabled).
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimit rejects requests with 429 once limiter is exhausted. A nil
// limiter passes every request through.
func RateLimit(limiter *rate.Limiter, logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(errorBody{Error: errRateLimited.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
