package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context, in ports.BeginInput) (string, string, string, error) {
			return "custom-url?redirect=" + in.RedirectURL, "custom-state", "custom-nonce", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "cb"})

	require.NoError(t, err)
	assert.Equal(t, "custom-url?redirect=cb", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "state-1"})

	require.NoError(t, err)
	assert.Equal(t, "E1042", identity.UserID)
	assert.Equal(t, "Mock Faculty", identity.DisplayName)
	assert.Equal(t, []string{"portal-staff"}, identity.Groups)
	assert.Empty(t, identity.Role)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestStubVerifier(t *testing.T) {
	v := &StubVerifier{Accept: map[string]domainauth.Identity{
		"staff:E1:pw": {UserID: "E1", DisplayName: "Dr. One"},
	}}

	ident, err := v.Verify(context.Background(), domainauth.Credentials{
		Identifier: "E1", Secret: "pw", Role: domainauth.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStaff, ident.Role)

	_, err = v.Verify(context.Background(), domainauth.Credentials{
		Identifier: "E1", Secret: "pw", Role: domainauth.RoleTPO,
	})
	assert.ErrorIs(t, err, ports.ErrCredentialsRejected)
}

func TestGroupRoleMapper(t *testing.T) {
	m := GroupRoleMapper{"placement": domainauth.RoleTPO}

	role, ok := m.Map([]string{"alumni", "placement"})
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleTPO, role)

	_, ok = m.Map([]string{"alumni"})
	assert.False(t, ok)
}
