package oidc

// Package oidc signs portal users in through a campus OpenID Connect IdP.
// Role assignment is left to a ports.RoleMapper over the "groups" claim.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config       *oauth2.Config
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	groupsClaim  string
}

var _ ports.AuthProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	// IssuerURL is the IdP issuer; a trailing /.well-known/openid-configuration is tolerated.
	IssuerURL string
	// GroupsClaim names the claim carrying group membership (default "groups").
	GroupsClaim string
	HTTPClient  *http.Client // Optional, defaults to a 30s-timeout client
}

// DiscoveryDocument is the subset of OIDC discovery metadata the provider relies on.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider performs discovery against the issuer and builds a provider.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = gooidc.ClientContext(ctx, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	scopes := strings.Fields(cfg.Scope)
	if !slices.Contains(scopes, gooidc.ScopeOpenID) {
		scopes = append([]string{gooidc.ScopeOpenID}, scopes...)
	}

	groupsClaim := strings.TrimSpace(cfg.GroupsClaim)
	if groupsClaim == "" {
		groupsClaim = "groups"
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     op.Endpoint(),
		},
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		groupsClaim:  groupsClaim,
	}, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri stays the configured RedirectURL; the post-login target
	// travels in the pending-destination marker instead.
	authURL := p.config.AuthCodeURL(state, gooidc.Nonce(nonce))
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, errors.New("missing id_token in token response")
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	raw := map[string]any{}
	if claimsErr := idTok.Claims(&raw); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	ident := identityFromClaims(raw, p.groupsClaim)

	if ident.Email == "" || len(ident.Groups) == 0 {
		ui, uiErr := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("fetch user info: %w", uiErr)
		}
		extra := map[string]any{}
		if claimsErr := ui.Claims(&extra); claimsErr != nil {
			return domainauth.Identity{}, fmt.Errorf("decode user info: %w", claimsErr)
		}
		mergeIdentity(&ident, identityFromClaims(extra, p.groupsClaim))
	}

	ident.ExpiresAt = idTok.Expiry
	if !token.Expiry.IsZero() {
		ident.ExpiresAt = token.Expiry
	}
	if ident.UserID == "" {
		return domainauth.Identity{}, errors.New("identity has no subject")
	}
	return ident, nil
}

// identityFromClaims maps standard OIDC claims onto an Identity.
// preferred_username is preferred over sub as the user ID because campus
// IdPs usually put the roll or employee number there.
func identityFromClaims(c map[string]any, groupsClaim string) domainauth.Identity {
	ident := domainauth.Identity{
		UserID:      firstNonEmpty(claimString(c, "preferred_username"), claimString(c, "sub")),
		DisplayName: claimString(c, "name"),
		Email:       claimString(c, "email"),
		Groups:      claimStrings(c, groupsClaim),
	}
	if ident.DisplayName == "" {
		ident.DisplayName = strings.TrimSpace(claimString(c, "given_name") + " " + claimString(c, "family_name"))
	}
	if ident.DisplayName == "" {
		ident.DisplayName = ident.UserID
	}
	return ident
}

// mergeIdentity fills blanks in dst from src.
func mergeIdentity(dst *domainauth.Identity, src domainauth.Identity) {
	if dst.UserID == "" {
		dst.UserID = src.UserID
	}
	if dst.DisplayName == "" || dst.DisplayName == dst.UserID {
		if src.DisplayName != "" {
			dst.DisplayName = src.DisplayName
		}
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if len(dst.Groups) == 0 {
		dst.Groups = src.Groups
	}
}

func claimString(c map[string]any, key string) string {
	s, _ := c[key].(string)
	return strings.TrimSpace(s)
}

// claimStrings accepts either a JSON array of strings or a single string.
func claimStrings(c map[string]any, key string) []string {
	switch v := c[key].(type) {
	case string:
		if v = strings.TrimSpace(v); v != "" {
			return []string{v}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, (length*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
