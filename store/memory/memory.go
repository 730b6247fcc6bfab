// Package memory is an in-memory Store used by tests and local tooling.
// It is not safe for production use: no durability, coarse locking.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/store"
)

// Store implements store.Store over process memory.
type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*model.User
	movies  map[uuid.UUID]*model.Movie
	reviews []*model.Review
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:  make(map[uuid.UUID]*model.User),
		movies: make(map[uuid.UUID]*model.Movie),
	}
}

func (m *Store) InsertUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Store) UserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *Store) UserByUsernameOrEmail(_ context.Context, q string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == q || u.Email == q {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// SetRejected flips the moderation flag on a stored user. Test hook; the
// production flow flips it through moderation tooling, not this API.
func (m *Store) SetRejected(id uuid.UUID, rejected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Rejected = rejected
	}
}

func (m *Store) InsertMovie(_ context.Context, mv *model.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mv
	m.movies[mv.ID] = &cp
	return nil
}

func (m *Store) MovieByID(_ context.Context, id uuid.UUID) (*model.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movies[id]; ok {
		cp := *mv
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *Store) MovieExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.movies[id]
	return ok, nil
}

func (m *Store) MoviesWithRating(_ context.Context) ([]model.MovieWithRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.MovieWithRating, 0, len(m.movies))
	for _, mv := range m.movies {
		mr := model.MovieWithRating{Movie: *mv}
		var sum, n int
		for _, r := range m.reviews {
			if r.MovieID == mv.ID {
				sum += r.Rating
				n++
			}
		}
		if n > 0 {
			avg := float64(sum) / float64(n)
			mr.AverageRating = &avg
		}
		out = append(out, mr)
	}
	return out, nil
}

func (m *Store) InsertReview(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reviews = append(m.reviews, &cp)
	return nil
}

func (m *Store) ReviewExists(_ context.Context, userID, movieID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.UserID == userID && r.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) ReviewsForMovie(_ context.Context, movieID uuid.UUID) ([]model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].MovieID == movieID {
			out = append(out, *m.reviews[i])
		}
	}
	return out, nil
}
