// Package routes wires the HTTP endpoints behind the security chain.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/justinas/alice"

	"github.com/collapsinghierarchy/filmgate/handler"
	"github.com/collapsinghierarchy/filmgate/metrics"
	"github.com/collapsinghierarchy/filmgate/ratelimit"
	"github.com/collapsinghierarchy/filmgate/security"
	"github.com/collapsinghierarchy/filmgate/token"
)

// Setup builds the endpoint mux and wraps it in the security chain. Stage
// order is fixed: headers, rate limit, static token, session token,
// authorization. Each stage short-circuits on its own terms; the context
// principal starts anonymous and is only ever upgraded.
func Setup(srv *handler.Server, limiter *ratelimit.Limiter, staticTokens *token.StaticRegistry,
	sessions *token.SessionService, log *slog.Logger) http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/signup", srv.Signup)
	mux.HandleFunc("POST /v1/auth/login", srv.Login)

	mux.HandleFunc("GET /v1/movies", srv.ListMovies)
	mux.HandleFunc("POST /v1/movies/submit", srv.SubmitMovie)
	mux.HandleFunc("GET /v1/movies/{movieId}/reviews", srv.ListReviews)
	mux.HandleFunc("POST /v1/movies/{movieId}/review/submit", srv.SubmitReview)

	// Reachable only by clearing the policy's deny-all internal family,
	// i.e. not over this listener. Kept mounted so the registry stays wired.
	mux.Handle("GET /internal/metrics", metrics.Handler())

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	chain := alice.New(
		logRequest(log),
		security.Headers,
		security.RateLimit(limiter, log),
		security.StaticToken(staticTokens, log),
		security.SessionToken(sessions, log),
		security.Authorize(security.DefaultPolicy()),
	)
	return chain.Then(mux)
}

// logRequest logs basic request information and counts it.
func logRequest(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.RequestsTotal.Inc()
			log.Debug("request", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}
