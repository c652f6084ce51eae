package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents one of the portal's fixed user categories.
// Keep string form for easy persistence and cookies; construct from
// untrusted input only through ParseRole.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleTPO     Role = "tpo"
)

// ErrUnknownRole is returned by ParseRole for strings outside the role set.
var ErrUnknownRole = errors.New("unknown role")

// AllRoles returns every role in display order.
func AllRoles() []Role {
	return []Role{RoleStudent, RoleStaff, RoleTPO}
}

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleTPO:
		return RoleTPO, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleTPO:
		return true
	default:
		return false
	}
}

// HomePath returns the root of the role's route subtree, e.g. "/staff".
func (r Role) HomePath() string {
	switch r {
	case RoleStudent, RoleStaff, RoleTPO:
		return "/" + string(r)
	default:
		return "/"
	}
}

// Label returns the human-readable name used in navigation chrome.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleStaff:
		return "Staff"
	case RoleTPO:
		return "Training & Placement"
	default:
		return ""
	}
}

// OwnsPath reports whether path lies inside the role's subtree.
func (r Role) OwnsPath(path string) bool {
	if !r.Valid() {
		return false
	}
	home := r.HomePath()
	return path == home || strings.HasPrefix(path, home+"/")
}

// RoleForPath returns the role whose subtree contains path.
func RoleForPath(path string) (Role, bool) {
	for _, r := range AllRoles() {
		if r.OwnsPath(path) {
			return r, true
		}
	}
	return "", false
}

// Credentials is what a user submits on the login form.
type Credentials struct {
	Identifier string
	Secret     string
	Role       Role
}

// Blank reports whether either half of the identifier/secret pair is empty.
func (c Credentials) Blank() bool {
	return strings.TrimSpace(c.Identifier) == "" || strings.TrimSpace(c.Secret) == ""
}

// Identity represents the authenticated principal returned by a verifier or IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	Groups      []string
	Role        Role      // empty when the provider leaves role mapping to a RoleMapper
	ExpiresAt   time.Time // absolute expiry; zero means "use the configured session TTL"
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email,omitempty"`
	Role          Role      `json:"role"`
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Active reports whether the session is authenticated, role-bearing and unexpired.
func (s Session) Active(now time.Time) bool {
	return s.ID != "" && s.Authenticated && s.Role.Valid() && !s.Expired(now)
}
