package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/service"
	"github.com/collapsinghierarchy/filmgate/token"
)

// Error codes surfaced in response envelopes. Stable for clients, opaque
// about which internal check failed.
const (
	codeInvalidRegistration = 1001
	codeUserExists          = 1002
	codeRegistrationError   = 1003
	codeInvalidLogin        = 1004
	codeBadCredentials      = 1005
	codeLoginError          = 1006
	codeAuthFailed          = 1001
	codeValidationFailed    = 2001
	codeInvalidFormat       = 2002
	codeInvalidParameter    = 2004
	codeInternalError       = 5001
)

// Server bundles the endpoint handlers with their dependencies.
type Server struct {
	accounts *service.Account
	movies   *service.Movies
	reviews  *service.Reviews
	sessions *token.SessionService
	log      *slog.Logger
}

func New(accounts *service.Account, movies *service.Movies, reviews *service.Reviews,
	sessions *token.SessionService, log *slog.Logger) *Server {
	return &Server{accounts: accounts, movies: movies, reviews: reviews, sessions: sessions, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidFormat, "Invalid request format"))
		return false
	}
	return true
}
