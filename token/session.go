// Package token implements the two request credentials: RS512-signed
// session tokens bound to a user, and the pre-shared film submission
// tokens loaded from auth.json.
package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session tokens live this long; there is no refresh or revocation.
const sessionTTL = 30 * 24 * time.Hour

var (
	// ErrTokenExpired: signature checked out but the token is past expiry.
	ErrTokenExpired = errors.New("session token expired")
	// ErrTokenInvalid: malformed structure or bad signature.
	ErrTokenInvalid = errors.New("session token invalid")
)

// SessionService issues and verifies stateless session tokens. Verification
// needs only the public key, so other services can hold just that half.
type SessionService struct {
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
	log  *slog.Logger
	now  func() time.Time
}

func NewSessionService(priv *rsa.PrivateKey, pub *rsa.PublicKey, log *slog.Logger) *SessionService {
	return &SessionService{priv: priv, pub: pub, log: log, now: time.Now}
}

// Issue signs a token for userID, valid for 30 days.
func (s *SessionService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS512, claims).SignedString(s.priv)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject user id.
// Callers treat both failure modes as a plain denial; the distinction is
// for logs only.
func (s *SessionService) Verify(tok string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.pub, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.log.Debug("session token rejected", "code", "ERR_SESSION_TOKEN_EXPIRED")
			return uuid.Nil, ErrTokenExpired
		}
		s.log.Debug("session token rejected", "code", "ERR_SESSION_TOKEN_INVALID", "err", err)
		return uuid.Nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.log.Debug("session token rejected", "code", "ERR_SESSION_TOKEN_INVALID", "err", err)
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}
