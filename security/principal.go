// Package security implements the request security chain: the stages that
// decide, per request, whether to proceed and with which identity.
package security

import (
	"context"

	"github.com/google/uuid"
)

// Kind is the role a request resolved to.
type Kind int

const (
	// Anonymous: no credential presented, or none verified.
	Anonymous Kind = iota
	// Submitter: a pre-shared film submission token matched.
	Submitter
	// AuthenticatedUser: a session token verified; UserID is set.
	AuthenticatedUser
)

// Principal is the identity resolved for one request. It lives exactly as
// long as the request and is never persisted.
type Principal struct {
	Kind   Kind
	UserID uuid.UUID
}

func (p Principal) Authenticated() bool { return p.Kind != Anonymous }

type contextKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal resolved for this request, or an
// anonymous one when no stage assigned any.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(contextKey{}).(Principal); ok {
		return p
	}
	return Principal{Kind: Anonymous}
}
