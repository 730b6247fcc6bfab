// Package service holds the business operations over the store: accounts,
// movies and reviews. All unexpected store failures are logged with a
// stable ERR_* code and wrapped; expected outcomes are sentinel errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/password"
	"github.com/collapsinghierarchy/filmgate/store"
)

var (
	// ErrUserExists: the username or email is already taken.
	ErrUserExists = errors.New("username or email already exists")
	// ErrBadCredentials covers unknown users, wrong passwords and
	// rejected accounts alike, so callers cannot tell them apart.
	ErrBadCredentials = errors.New("invalid credentials")
)

type Account struct {
	store store.Store
	log   *slog.Logger
}

func NewAccount(st store.Store, log *slog.Logger) *Account {
	return &Account{store: st, log: log}
}

// Register creates a user with a freshly hashed password and a
// time-ordered id.
func (a *Account) Register(ctx context.Context, username, email, pw string, dateOfBirth time.Time) (*model.User, error) {
	taken, err := a.store.UsernameExists(ctx, username)
	if err != nil {
		a.log.Error("registration failed", "code", "ERR_USER_REGISTRATION_FAILED", "err", err)
		return nil, fmt.Errorf("check username: %w", err)
	}
	if !taken {
		taken, err = a.store.EmailExists(ctx, email)
		if err != nil {
			a.log.Error("registration failed", "code", "ERR_USER_REGISTRATION_FAILED", "err", err)
			return nil, fmt.Errorf("check email: %w", err)
		}
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := password.Hash(pw)
	if err != nil {
		a.log.Error("registration failed", "code", "ERR_USER_REGISTRATION_FAILED", "err", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("new user id: %w", err)
	}
	u := &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DateOfBirth:  dateOfBirth,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.InsertUser(ctx, u); err != nil {
		a.log.Error("registration failed", "code", "ERR_USER_REGISTRATION_FAILED", "err", err)
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate resolves a user by username or email and verifies the
// password. Rejected accounts cannot log in.
func (a *Account) Authenticate(ctx context.Context, usernameOrEmail, pw string) (*model.User, error) {
	u, err := a.store.UserByUsernameOrEmail(ctx, usernameOrEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		a.log.Error("authentication failed", "code", "ERR_USER_AUTHENTICATION_FAILED", "err", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.Rejected {
		return nil, ErrBadCredentials
	}
	if !password.Verify(pw, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// UserByID loads a user for an already-authenticated principal.
func (a *Account) UserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := a.store.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		a.log.Error("user lookup failed", "code", "ERR_USER_LOOKUP_FAILED", "err", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
