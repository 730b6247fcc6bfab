// Package store defines the persistence interface the services depend on.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/collapsinghierarchy/filmgate/model"
)

// ErrNotFound is returned by lookups for absent rows.
var ErrNotFound = errors.New("not found")

type Store interface {
	InsertUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	InsertMovie(ctx context.Context, m *model.Movie) error
	MovieByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
	MoviesWithRating(ctx context.Context) ([]model.MovieWithRating, error)

	InsertReview(ctx context.Context, r *model.Review) error
	ReviewExists(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	ReviewsForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error)
}
