package staticauth

// Package staticauth verifies credentials against a fixed, config-supplied
// list of users with bcrypt password hashes.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// User is a configured account. A user may sign in only as Role.
type User struct {
	Role         domainauth.Role
	Identifier   string
	PasswordHash string
	DisplayName  string
}

// ParseUsers parses entries of the form "role:identifier:bcrypt-hash[:display name]".
func ParseUsers(entries []string) ([]User, error) {
	users := make([]User, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("static user %d: expected role:identifier:hash", i)
		}
		role, err := domainauth.ParseRole(parts[0])
		if err != nil {
			return nil, fmt.Errorf("static user %d: %w", i, err)
		}
		id := strings.TrimSpace(parts[1])
		hash := strings.TrimSpace(parts[2])
		if id == "" || hash == "" {
			return nil, fmt.Errorf("static user %d: identifier and hash are required", i)
		}
		if _, costErr := bcrypt.Cost([]byte(hash)); costErr != nil {
			return nil, fmt.Errorf("static user %d: invalid bcrypt hash: %w", i, costErr)
		}
		key := userKey(role, id)
		if seen[key] {
			return nil, fmt.Errorf("static user %d: duplicate %s", i, key)
		}
		seen[key] = true

		u := User{Role: role, Identifier: id, PasswordHash: hash, DisplayName: id}
		if len(parts) == 4 && strings.TrimSpace(parts[3]) != "" {
			u.DisplayName = strings.TrimSpace(parts[3])
		}
		users = append(users, u)
	}
	return users, nil
}

// HashPassword returns a bcrypt hash suitable for a static user entry.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verifier implements ports.CredentialVerifier over a static user list.
type Verifier struct {
	users           map[string]User
	dummyHash       []byte // compared against for unknown users so both paths cost a bcrypt round
	sessionDuration time.Duration
	now             func() time.Time
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier builds a verifier; sessionDuration defaults to 8h.
func NewVerifier(users []User, sessionDuration time.Duration) (*Verifier, error) {
	if len(users) == 0 {
		return nil, errors.New("static auth: at least one user is required")
	}
	if sessionDuration <= 0 {
		sessionDuration = 8 * time.Hour
	}
	idx := make(map[string]User, len(users))
	for _, u := range users {
		idx[userKey(u.Role, u.Identifier)] = u
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("unused-static-auth-secret"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("static auth: %w", err)
	}
	return &Verifier{users: idx, dummyHash: dummy, sessionDuration: sessionDuration, now: time.Now}, nil
}

// Verify checks the secret against the stored hash for (role, identifier).
func (v *Verifier) Verify(_ context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if creds.Blank() || !creds.Role.Valid() {
		return domainauth.Identity{}, ports.ErrCredentialsRejected
	}
	id := strings.TrimSpace(creds.Identifier)
	u, ok := v.users[userKey(creds.Role, id)]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(creds.Secret))
		return domainauth.Identity{}, ports.ErrCredentialsRejected
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Secret)); err != nil {
		return domainauth.Identity{}, ports.ErrCredentialsRejected
	}
	return domainauth.Identity{
		UserID:      u.Identifier,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		ExpiresAt:   v.now().Add(v.sessionDuration),
	}, nil
}

func userKey(role domainauth.Role, id string) string {
	return string(role) + ":" + strings.ToLower(id)
}
