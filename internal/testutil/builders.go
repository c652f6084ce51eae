// Package testutil provides testing utilities and helpers for the campus portal.
package testutil

import (
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building sessions in tests.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession returns a builder for an authenticated student session
// expiring an hour after TestTime.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:            "sess-1",
			UserID:        "21CS1042",
			DisplayName:   "Student 21CS1042",
			Role:          domainauth.RoleStudent,
			Authenticated: true,
			ExpiresAt:     TestTime().Add(time.Hour),
		},
	}
}

// WithID sets the session ID.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithUser sets the user ID and display name.
func (b *SessionBuilder) WithUser(id, name string) *SessionBuilder {
	b.sess.UserID = id
	b.sess.DisplayName = name
	return b
}

// WithRole sets the session role.
func (b *SessionBuilder) WithRole(role domainauth.Role) *SessionBuilder {
	b.sess.Role = role
	return b
}

// ExpiresAt sets the expiry.
func (b *SessionBuilder) ExpiresAt(at time.Time) *SessionBuilder {
	b.sess.ExpiresAt = at
	return b
}

// Unauthenticated clears the authenticated flag.
func (b *SessionBuilder) Unauthenticated() *SessionBuilder {
	b.sess.Authenticated = false
	return b
}

// Build returns the session value.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}

// Ptr returns a pointer to a copy of the session.
func (b *SessionBuilder) Ptr() *domainauth.Session {
	s := b.sess
	return &s
}
