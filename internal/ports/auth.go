package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// ErrSessionNotFound is returned by session stores when no live session exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrCredentialsRejected is returned by verifiers that refuse a credential pair.
var ErrCredentialsRejected = errors.New("credentials rejected")

// CredentialVerifier checks a submitted identifier/secret pair and returns
// the identity it belongs to. Swapping implementations is how real
// verification replaces the demo verifier.
type CredentialVerifier interface {
	Verify(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
}

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// MarkerStore keeps at most one pending-destination marker per visitor.
type MarkerStore interface {
	// Remember records path for visitor, overwriting any earlier marker.
	Remember(ctx context.Context, visitor, path string, ttl time.Duration) error
	// Consume atomically reads and clears the visitor's marker.
	// ok is false when no marker was pending.
	Consume(ctx context.Context, visitor string) (path string, ok bool, err error)
}

// RoleMapper maps provider groups to a portal role.
// ok is false when no group grants access to any role.
type RoleMapper interface {
	Map(groups []string) (role domainauth.Role, ok bool)
}
