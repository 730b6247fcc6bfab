package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/service"
	"github.com/collapsinghierarchy/filmgate/validate"
)

// Signup registers a user and returns a fresh session token.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.RegistrationRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validate.Registration(req, time.Now()); !errs.Ok() {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidRegistration, "Invalid registration data provided"))
		return
	}
	dob, err := validate.ParseDate(req.DateOfBirth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidRegistration, "Invalid registration data provided"))
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Username, req.Email, req.Password, dob)
	if errors.Is(err, service.ErrUserExists) {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeUserExists, "Username or email already exists"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeRegistrationError, "Registration process encountered an error"))
		return
	}

	tok, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.log.Error("token issue failed", "code", "ERR_SESSION_TOKEN_ISSUE_FAILED", "err", err)
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeRegistrationError, "Registration process encountered an error"))
		return
	}
	writeJSON(w, http.StatusOK, model.Success(tok))
}

// Login authenticates a user and returns a fresh session token.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validate.Login(req); !errs.Ok() {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidLogin, "Invalid login data provided"))
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), req.UsernameOrEmail, req.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		writeJSON(w, http.StatusUnauthorized, model.Failure(codeBadCredentials, "Invalid credentials or account access restricted"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeLoginError, "Authentication process encountered an error"))
		return
	}

	tok, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.log.Error("token issue failed", "code", "ERR_SESSION_TOKEN_ISSUE_FAILED", "err", err)
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeLoginError, "Authentication process encountered an error"))
		return
	}
	writeJSON(w, http.StatusOK, model.Success(tok))
}
