package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
)

func discoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		doc := DiscoveryDocument{
			Issuer:                srv.URL,
			AuthorizationEndpoint: "https://idp.example.edu/auth",
			TokenEndpoint:         srv.URL + "/token",
			UserinfoEndpoint:      "https://idp.example.edu/userinfo",
			JwksURI:               "https://idp.example.edu/jwks",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func createTestProvider(t *testing.T) *Provider {
	t.Helper()
	srv := discoveryServer(t)
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "portal",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "profile email groups",
		IssuerURL:    srv.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Success(t *testing.T) {
	p := createTestProvider(t)
	assert.Equal(t, "https://idp.example.edu/auth", p.config.Endpoint.AuthURL)
	assert.Equal(t, []string{"openid", "profile", "email", "groups"}, p.config.Scopes)
	assert.Equal(t, "groups", p.groupsClaim)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{"missing client ID", ProviderConfig{ClientSecret: "s", RedirectURL: "http://x/cb", IssuerURL: "http://x"}, "client ID is required"},
		{"missing client secret", ProviderConfig{ClientID: "c", RedirectURL: "http://x/cb", IssuerURL: "http://x"}, "client secret is required"},
		{"missing redirect URL", ProviderConfig{ClientID: "c", ClientSecret: "s", IssuerURL: "http://x"}, "redirect URL is required"},
		{"missing issuer", ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://x/cb"}, "issuer URL is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	p := createTestProvider(t)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.Contains(t, authURL, "https://idp.example.edu/auth")
	assert.Contains(t, authURL, "client_id=portal")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)

	_, _, _, err = p.Begin(context.Background(), ports.BeginInput{})
	assert.ErrorContains(t, err, "redirect URL is required")
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	p := createTestProvider(t)

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{"missing code", ports.ExchangeInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"missing state", ports.ExchangeInput{Code: "c", Nonce: "n"}, "state is required"},
		{"missing nonce", ports.ExchangeInput{Code: "c", State: "s"}, "nonce is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Exchange(context.Background(), tt.input)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestProvider_Exchange_TokenEndpointFailure(t *testing.T) {
	p := createTestProvider(t)

	// the discovery server answers /token with a discovery document, not a token
	_, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
}

func TestIdentityFromClaims(t *testing.T) {
	ident := identityFromClaims(map[string]any{
		"sub":                "f3a9",
		"preferred_username": "21CS1042",
		"given_name":         "Asha",
		"family_name":        "Rao",
		"email":              "asha@campus.example.edu",
		"groups":             []any{"portal-students", 7, ""},
	}, "groups")

	assert.Equal(t, domainauth.Identity{
		UserID:      "21CS1042",
		DisplayName: "Asha Rao",
		Email:       "asha@campus.example.edu",
		Groups:      []string{"portal-students"},
	}, ident)

	ident = identityFromClaims(map[string]any{"sub": "f3a9", "roles": "portal-tpo"}, "roles")
	assert.Equal(t, "f3a9", ident.UserID)
	assert.Equal(t, "f3a9", ident.DisplayName)
	assert.Equal(t, []string{"portal-tpo"}, ident.Groups)
}

func TestMergeIdentity_KeepsExisting(t *testing.T) {
	dst := domainauth.Identity{UserID: "u1", DisplayName: "u1", Email: "keep@example.edu"}
	mergeIdentity(&dst, domainauth.Identity{
		UserID:      "other",
		DisplayName: "Real Name",
		Email:       "new@example.edu",
		Groups:      []string{"g"},
	})
	assert.Equal(t, "u1", dst.UserID)
	assert.Equal(t, "Real Name", dst.DisplayName)
	assert.Equal(t, "keep@example.edu", dst.Email)
	assert.Equal(t, []string{"g"}, dst.Groups)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := generateRandomString(16)
	require.NoError(t, err)
	b, err := generateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
