package security

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/collapsinghierarchy/filmgate/metrics"
	"github.com/collapsinghierarchy/filmgate/token"
)

// StaticToken resolves the Submitter principal from a pre-shared token in
// X-API-AUTH. A failed match leaves the request anonymous and lets the
// chain continue: the same header may still verify as a session token in
// the next stage. The rate-limit stage terminates; this one does not.
func StaticToken(reg *token.StaticRegistry, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := strings.TrimSpace(r.Header.Get(AuthHeader))
			if tok == "" || PrincipalFrom(r.Context()).Authenticated() {
				next.ServeHTTP(w, r)
				return
			}
			if !reg.IsValid(tok) {
				log.Debug("static token rejected", "code", "ERR_STATIC_TOKEN_INVALID")
				metrics.AuthFailuresTotal.WithLabelValues("static").Inc()
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("film submitter authenticated")
			ctx := WithPrincipal(r.Context(), Principal{Kind: Submitter})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
