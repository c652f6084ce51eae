package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider       = (*MockAuthProvider)(nil)
	_ ports.CredentialVerifier = (*StubVerifier)(nil)
	_ ports.RoleMapper         = GroupRoleMapper(nil)
)

// MockAuthProvider simulates an IdP with deterministic state and nonce values.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider whose default user is in
// the "portal-staff" group.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID:      "E1042",
			DisplayName: "Mock Faculty",
			Email:       "mock.faculty@campus.example.edu",
			Groups:      []string{"portal-staff"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()
	return m.AuthURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// StubVerifier accepts exactly the pairs listed in Accept, keyed by
// "role:identifier:secret".
type StubVerifier struct {
	Accept map[string]domainauth.Identity
}

func (s *StubVerifier) Verify(_ context.Context, c domainauth.Credentials) (domainauth.Identity, error) {
	ident, ok := s.Accept[string(c.Role)+":"+c.Identifier+":"+c.Secret]
	if !ok {
		return domainauth.Identity{}, ports.ErrCredentialsRejected
	}
	if ident.Role == "" {
		ident.Role = c.Role
	}
	return ident, nil
}

// GroupRoleMapper maps a group name straight to a role.
type GroupRoleMapper map[string]domainauth.Role

func (m GroupRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	for _, g := range groups {
		if r, ok := m[g]; ok {
			return r, true
		}
	}
	return "", false
}
