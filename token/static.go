package token

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Submission tokens are 64 hex characters, as produced by the token
// generation tooling. Anything else in auth.json is dropped, never trusted.
const staticTokenLen = 64

// StaticRegistry holds the closed set of pre-shared film submission
// tokens. Read-only after load.
type StaticRegistry struct {
	tokens map[string]struct{}
}

type staticTokenRecord struct {
	User        string `json:"user"`
	Description string `json:"description"`
	Token       string `json:"token"`
}

// LoadStaticRegistry reads the token records from path. A missing file is
// a degraded start (no valid submission tokens), not a failure; an
// unreadable or unparseable file is an error.
func LoadStaticRegistry(path string, log *slog.Logger) (*StaticRegistry, error) {
	reg := &StaticRegistry{tokens: make(map[string]struct{})}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn("static token file not found, film submission disabled", "path", path)
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read static tokens: %w", err)
	}

	var records []staticTokenRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse static tokens: %w", err)
	}

	for _, rec := range records {
		tok := strings.TrimSpace(rec.Token)
		if tok == "" {
			continue
		}
		if !ValidTokenFormat(tok) {
			log.Warn("ignoring static token with invalid format", "user", rec.User)
			continue
		}
		reg.tokens[tok] = struct{}{}
	}
	log.Info("loaded static submission tokens", "count", len(reg.tokens), "path", path)
	return reg, nil
}

// NewStaticRegistry builds a registry from already-vetted tokens (tests,
// token rotation tooling).
func NewStaticRegistry(tokens ...string) *StaticRegistry {
	reg := &StaticRegistry{tokens: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		reg.tokens[t] = struct{}{}
	}
	return reg
}

// IsValid reports whether tok is a member of the loaded set. Blank input
// is always invalid.
func (r *StaticRegistry) IsValid(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	_, ok := r.tokens[tok]
	return ok
}

// Len returns the number of loaded tokens.
func (r *StaticRegistry) Len() int { return len(r.tokens) }

// ValidTokenFormat reports whether tok looks like a generated submission
// token: exactly 64 hex characters.
func ValidTokenFormat(tok string) bool {
	if len(tok) != staticTokenLen {
		return false
	}
	for _, c := range tok {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
