package security

import (
	"log/slog"
	"net/http"

	"github.com/collapsinghierarchy/filmgate/metrics"
	"github.com/collapsinghierarchy/filmgate/ratelimit"
)

// AuthHeader carries either a film submission token or a session token;
// the two are disambiguated by which registry verifies it.
const AuthHeader = "X-API-AUTH"

const rateLimitBody = `{"error": "Rate limit exceeded. Please try again later."}`

// RateLimit terminates over-limit requests with a fixed 429 body. It is
// the only credential-free stage that can end the chain.
func RateLimit(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ratelimit.ClientKey(r.Header.Get("X-Forwarded-For"), r.RemoteAddr)
			if !limiter.Allow(clientID) {
				log.Warn("rate limit exceeded", "code", "ERR_RATE_LIMITED", "client", clientID)
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(rateLimitBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
