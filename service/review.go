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

// ErrDuplicateReview: one review per user per movie.
var ErrDuplicateReview = errors.New("user already reviewed this movie")

type Reviews struct {
	store  store.Store
	movies *Movies
	log    *slog.Logger
}

func NewReviews(st store.Store, movies *Movies, log *slog.Logger) *Reviews {
	return &Reviews{store: st, movies: movies, log: log}
}

// Submit stores a review by userID for movieID.
func (s *Reviews) Submit(ctx context.Context, movieID, userID uuid.UUID, rating int, description string) (*model.Review, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	dup, err := s.store.ReviewExists(ctx, userID, movieID)
	if err != nil {
		s.log.Error("review submission failed", "code", "ERR_REVIEW_SUBMISSION_FAILED", "err", err)
		return nil, fmt.Errorf("review exists: %w", err)
	}
	if dup {
		return nil, ErrDuplicateReview
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("new review id: %w", err)
	}
	review := &model.Review{
		ID:          id,
		MovieID:     movieID,
		UserID:      userID,
		Rating:      rating,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertReview(ctx, review); err != nil {
		s.log.Error("review submission failed", "code", "ERR_REVIEW_SUBMISSION_FAILED", "err", err)
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// ForMovie lists a movie's reviews, newest first. An unknown movie yields
// an empty list rather than an error.
func (s *Reviews) ForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []model.Review{}, nil
	}
	reviews, err := s.store.ReviewsForMovie(ctx, movieID)
	if err != nil {
		s.log.Error("review listing failed", "code", "ERR_REVIEWS_RETRIEVAL_FAILED", "err", err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
