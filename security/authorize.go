package security

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/collapsinghierarchy/filmgate/model"
)

// Access is the requirement a route places on the resolved principal.
type Access int

const (
	// Public: no principal required.
	Public Access = iota
	// RequireSubmitter: a film submission token must have matched.
	RequireSubmitter
	// RequireUser: a session token must have verified.
	RequireUser
	// RequireAny: any non-anonymous principal.
	RequireAny
	// DenyAll: no principal is ever sufficient (internal route family).
	DenyAll
)

// Reason classifies a rejection for the routing layer.
type Reason string

const (
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonForbidden       Reason = "FORBIDDEN"
	ReasonRateLimited     Reason = "RATE_LIMITED"
)

// Decision is the chain's outcome for one request.
type Decision struct {
	Allowed   bool
	Principal Principal
	Reason    Reason
}

type rule struct {
	pattern string // path pattern; "{x}" segments match any one segment,
	// a trailing "/" matches the whole subtree
	access Access
}

// Policy is the static route authorization table. Rules are evaluated in
// order, first match wins; unmatched routes require any authenticated
// principal.
type Policy struct {
	rules []rule
}

// DefaultPolicy mirrors the production route table.
func DefaultPolicy() *Policy {
	return &Policy{rules: []rule{
		{"/healthz", Public},
		{"/v1/auth/signup", Public},
		{"/v1/auth/login", Public},
		{"/v1/movies", Public},
		{"/v1/movies/{movieId}/reviews", Public},
		{"/v1/movies/submit", RequireSubmitter},
		{"/v1/movies/{movieId}/review/submit", RequireUser},
		{"/internal/", DenyAll},
	}}
}

// Evaluate resolves the access requirement for path and applies it to p.
func (pol *Policy) Evaluate(path string, p Principal) Decision {
	access := RequireAny
	for _, r := range pol.rules {
		if matchPattern(r.pattern, path) {
			access = r.access
			break
		}
	}

	switch access {
	case Public:
		return Decision{Allowed: true, Principal: p}
	case RequireSubmitter:
		if p.Kind == Submitter {
			return Decision{Allowed: true, Principal: p}
		}
	case RequireUser:
		if p.Kind == AuthenticatedUser {
			return Decision{Allowed: true, Principal: p}
		}
	case RequireAny:
		if p.Authenticated() {
			return Decision{Allowed: true, Principal: p}
		}
	case DenyAll:
		return Decision{Allowed: false, Principal: p, Reason: ReasonForbidden}
	}

	if !p.Authenticated() {
		return Decision{Allowed: false, Principal: p, Reason: ReasonUnauthenticated}
	}
	return Decision{Allowed: false, Principal: p, Reason: ReasonForbidden}
}

// Authorize is the final chain stage: it applies the policy to the
// resolved principal. Denials are uniform on the wire so a caller cannot
// tell which check failed; logs carry the distinct codes.
func Authorize(pol *Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := pol.Evaluate(r.URL.Path, PrincipalFrom(r.Context()))
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			switch d.Reason {
			case ReasonUnauthenticated:
				writeJSON(w, http.StatusUnauthorized, model.Failure(1001, "Authentication failed"))
			default:
				writeJSON(w, http.StatusForbidden, model.Failure(1002, "Access denied"))
			}
		})
	}
}

func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(path, pattern)
	}
	pp := strings.Split(pattern, "/")
	sp := strings.Split(path, "/")
	if len(pp) != len(sp) {
		return false
	}
	for i := range pp {
		if strings.HasPrefix(pp[i], "{") && strings.HasSuffix(pp[i], "}") {
			if sp[i] == "" {
				return false
			}
			continue
		}
		if pp[i] != sp[i] {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
