package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/security"
	"github.com/collapsinghierarchy/filmgate/service"
	"github.com/collapsinghierarchy/filmgate/store"
	"github.com/collapsinghierarchy/filmgate/validate"
)

// SubmitMovie accepts a film submission. The chain has already required a
// Submitter principal for this route.
func (s *Server) SubmitMovie(w http.ResponseWriter, r *http.Request) {
	var req model.MovieSubmissionRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validate.MovieSubmission(req); !errs.Ok() {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeValidationFailed, "Validation failed"))
		return
	}
	if _, err := s.movies.Submit(r.Context(), req); err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeInternalError, "An unexpected error occurred"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListMovies returns all movies with their average rating.
func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeInternalError, "An unexpected error occurred"))
		return
	}
	if movies == nil {
		movies = []model.MovieWithRating{}
	}
	writeJSON(w, http.StatusOK, movies)
}

// SubmitReview accepts a review from the authenticated user for the movie
// in the path.
func (s *Server) SubmitReview(w http.ResponseWriter, r *http.Request) {
	principal := security.PrincipalFrom(r.Context())
	if principal.Kind != security.AuthenticatedUser {
		writeJSON(w, http.StatusUnauthorized, model.Failure(codeAuthFailed, "Authentication failed"))
		return
	}
	// The token is stateless; the account state is not. Rejected or
	// deleted users keep a valid signature but lose access here.
	user, err := s.accounts.UserByID(r.Context(), principal.UserID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user.Rejected) {
		writeJSON(w, http.StatusUnauthorized, model.Failure(codeAuthFailed, "Authentication failed"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeInternalError, "An unexpected error occurred"))
		return
	}

	movieID, err := uuid.Parse(r.PathValue("movieId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidParameter, "Invalid movie id"))
		return
	}
	var req model.ReviewSubmissionRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validate.ReviewSubmission(req); !errs.Ok() {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeValidationFailed, "Validation failed"))
		return
	}

	_, err = s.reviews.Submit(r.Context(), movieID, user.ID, *req.Rating, req.Description)
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidParameter, "Invalid movie id"))
	case errors.Is(err, service.ErrDuplicateReview):
		writeJSON(w, http.StatusBadRequest, model.Failure(codeValidationFailed, "Validation failed"))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeInternalError, "An unexpected error occurred"))
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// ListReviews returns a movie's reviews, newest first.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(r.PathValue("movieId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Failure(codeInvalidParameter, "Invalid movie id"))
		return
	}
	reviews, err := s.reviews.ForMovie(r.Context(), movieID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.Failure(codeInternalError, "An unexpected error occurred"))
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
