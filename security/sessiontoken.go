package security

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/collapsinghierarchy/filmgate/metrics"
	"github.com/collapsinghierarchy/filmgate/token"
)

// SessionToken resolves an AuthenticatedUser principal from a session
// token in X-API-AUTH. Verification failure is not fatal here: the request
// simply proceeds anonymous and the authorization stage decides its fate.
func SessionToken(svc *token.SessionService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := strings.TrimSpace(r.Header.Get(AuthHeader))
			if tok == "" || PrincipalFrom(r.Context()).Authenticated() {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := svc.Verify(tok)
			if err != nil {
				// Expired vs invalid is already distinguished in the
				// service's logs; the caller-visible outcome is identical.
				metrics.AuthFailuresTotal.WithLabelValues("session").Inc()
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("user authenticated", "user", userID)
			ctx := WithPrincipal(r.Context(), Principal{Kind: AuthenticatedUser, UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
