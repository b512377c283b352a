package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/ratelimit"
)

// RateLimit enforces the fixed-window limit for a policy, identifying the
// caller by client IP. Denied requests get 429 with X-RateLimit-* and
// Retry-After headers; limiter backend failures fail open.
func RateLimit(limiter ratelimit.Limiter, policy ratelimit.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Allow(r.Context(), policy, clientIP(r))
			if err != nil {
				log.Printf("ratelimit: backend error, failing open: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if decision.Limit >= 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))
			}

			if !decision.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter(time.Now())))
				api.HandleError(w, domain.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
