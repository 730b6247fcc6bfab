package model

import (
	"time"

	"github.com/google/uuid"
)

// AgeRating is the BBFC-style certificate attached to a movie.
type AgeRating string

const (
	RatingU       AgeRating = "U"
	RatingPG      AgeRating = "PG"
	Rating12A     AgeRating = "12A"
	Rating12      AgeRating = "12"
	Rating15      AgeRating = "15"
	Rating18      AgeRating = "18"
	RatingUnrated AgeRating = "UNRATED"
)

// Known reports whether r is one of the recognised certificates.
func (r AgeRating) Known() bool {
	switch r {
	case RatingU, RatingPG, Rating12A, Rating12, Rating15, Rating18, RatingUnrated:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	Rejected     bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Movie struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Genres      []string  `json:"genres"`
	Directors   []string  `json:"directors"`
	Writers     []string  `json:"writers"`
	Cast        []string  `json:"cast"`
	Producers   []string  `json:"producers"`
	ReleaseYear int       `json:"releaseYear"`
	AgeRating   AgeRating `json:"ageRating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MovieWithRating is a Movie joined with the average review rating,
// nil when the movie has no reviews yet.
type MovieWithRating struct {
	Movie
	AverageRating *float64 `json:"averageRating"`
}

type Review struct {
	ID          uuid.UUID `json:"id"`
	MovieID     uuid.UUID `json:"movieId"`
	UserID      uuid.UUID `json:"userId"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
