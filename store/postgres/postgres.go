package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/store"
)

type pgStore struct{ db *pgxpool.Pool }

func NewStore(db *pgxpool.Pool) store.Store { return &pgStore{db: db} }

// -------- users ------------------------------------------------------------

func (p *pgStore) InsertUser(ctx context.Context, u *model.User) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, date_of_birth, rejected, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.DateOfBirth, u.Rejected, u.CreatedAt)
	return err
}

func (p *pgStore) UserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return p.scanUser(p.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, date_of_birth, rejected, created_at
         FROM users WHERE id=$1`, id))
}

func (p *pgStore) UserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	return p.scanUser(p.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, date_of_birth, rejected, created_at
         FROM users WHERE username=$1 OR email=$1`, usernameOrEmail))
}

func (p *pgStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username).Scan(&exists)
	return exists, err
}

func (p *pgStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (p *pgStore) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateOfBirth, &u.Rejected, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// -------- movies -----------------------------------------------------------

func (p *pgStore) InsertMovie(ctx context.Context, m *model.Movie) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO movies (id, name, genres, directors, writers, cast_members, producers, release_year, age_rating, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.Name, m.Genres, m.Directors, m.Writers, m.Cast, m.Producers,
		m.ReleaseYear, string(m.AgeRating), m.CreatedAt)
	return err
}

func (p *pgStore) MovieByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	var m model.Movie
	var rating string
	err := p.db.QueryRow(ctx,
		`SELECT id, name, genres, directors, writers, cast_members, producers, release_year, age_rating, created_at
         FROM movies WHERE id=$1`, id).
		Scan(&m.ID, &m.Name, &m.Genres, &m.Directors, &m.Writers, &m.Cast, &m.Producers,
			&m.ReleaseYear, &rating, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.AgeRating = model.AgeRating(rating)
	return &m, nil
}

func (p *pgStore) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM movies WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (p *pgStore) MoviesWithRating(ctx context.Context) ([]model.MovieWithRating, error) {
	rows, err := p.db.Query(ctx,
		`SELECT m.id, m.name, m.genres, m.directors, m.writers, m.cast_members, m.producers,
                m.release_year, m.age_rating, m.created_at, AVG(r.rating) AS average_rating
         FROM movies m
         LEFT JOIN reviews r ON m.id = r.movie_id
         GROUP BY m.id
         ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MovieWithRating
	for rows.Next() {
		var m model.MovieWithRating
		var rating string
		if err := rows.Scan(&m.ID, &m.Name, &m.Genres, &m.Directors, &m.Writers, &m.Cast,
			&m.Producers, &m.ReleaseYear, &rating, &m.CreatedAt, &m.AverageRating); err != nil {
			return nil, err
		}
		m.AgeRating = model.AgeRating(rating)
		out = append(out, m)
	}
	return out, rows.Err()
}

// -------- reviews ----------------------------------------------------------

func (p *pgStore) InsertReview(ctx context.Context, r *model.Review) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO reviews (id, movie_id, user_id, rating, description, created_at)
         VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.MovieID, r.UserID, r.Rating, r.Description, r.CreatedAt)
	return err
}

func (p *pgStore) ReviewExists(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id=$1 AND movie_id=$2)`,
		userID, movieID).Scan(&exists)
	return exists, err
}

func (p *pgStore) ReviewsForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, movie_id, user_id, rating, description, created_at
         FROM reviews
         WHERE movie_id=$1
         ORDER BY created_at DESC`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.MovieID, &r.UserID, &r.Rating, &r.Description, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
