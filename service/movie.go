package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/store"
)

var ErrMovieNotFound = errors.New("movie not found")

type Movies struct {
	store store.Store
	log   *slog.Logger
}

func NewMovies(st store.Store, log *slog.Logger) *Movies {
	return &Movies{store: st, log: log}
}

// Submit stores a validated film submission.
func (m *Movies) Submit(ctx context.Context, req model.MovieSubmissionRequest) (*model.Movie, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("new movie id: %w", err)
	}
	movie := &model.Movie{
		ID:          id,
		Name:        req.Name,
		Genres:      req.Genres,
		Directors:   req.Directors,
		Writers:     req.Writers,
		Cast:        req.Cast,
		Producers:   req.Producers,
		ReleaseYear: req.ReleaseYear,
		AgeRating:   model.AgeRating(req.AgeRating),
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.store.InsertMovie(ctx, movie); err != nil {
		m.log.Error("movie submission failed", "code", "ERR_MOVIE_SUBMISSION_FAILED", "err", err)
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return movie, nil
}

// List returns all movies with their average review rating, newest first.
func (m *Movies) List(ctx context.Context) ([]model.MovieWithRating, error) {
	movies, err := m.store.MoviesWithRating(ctx)
	if err != nil {
		m.log.Error("movie listing failed", "code", "ERR_MOVIES_RETRIEVAL_FAILED", "err", err)
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// ByID loads a single movie.
func (m *Movies) ByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	movie, err := m.store.MovieByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		m.log.Error("movie lookup failed", "code", "ERR_MOVIE_LOOKUP_FAILED", "err", err)
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return movie, nil
}

// Exists reports whether a movie id refers to a stored movie.
func (m *Movies) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := m.store.MovieExists(ctx, id)
	if err != nil {
		m.log.Error("movie existence check failed", "code", "ERR_MOVIE_EXISTS_CHECK_FAILED", "err", err)
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}
