package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/observability/metrics"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/ports"
)

var (
	// ErrInvalidCredentials is returned by Login for blank input, an unknown
	// role, or a pair the verifier rejects. No state changes when it is returned.
	ErrInvalidCredentials = apperrors.Validation("Enter your ID, password and role to sign in.")

	// ErrNoSession is returned by CurrentUser when the client has no live session.
	ErrNoSession = apperrors.Unauthorized("not signed in")

	// ErrNoPortalRole is returned when an IdP identity maps to no portal role.
	ErrNoPortalRole = apperrors.Forbidden("Your account is not enrolled in any portal role.")

	// ErrOAuthDisabled is returned by the OAuth methods when no provider is configured.
	ErrOAuthDisabled = errors.New("oauth login is not configured")

	// ErrFormLoginDisabled is returned by Login when no credential verifier is configured.
	ErrFormLoginDisabled = errors.New("form login is not configured")
)

// DefaultSessionTTL applies when neither the identity nor the config sets an expiry.
const DefaultSessionTTL = 8 * time.Hour

// AuthServiceConfig carries optional collaborators and tunables.
type AuthServiceConfig struct {
	Provider   ports.AuthProvider // optional; enables the OAuth flow
	Roles      ports.RoleMapper   // required when Provider is set
	SessionTTL time.Duration      // upper bound on session lifetime; DefaultSessionTTL when zero
	Metrics    statsd.Sink
	Logger     *slog.Logger
	Now        func() time.Time
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Verifier ports.CredentialVerifier // form login; may be nil in oauth-only mode
	Sessions ports.SessionStore       // required
	Config   AuthServiceConfig
}

// AuthService is the portal's session store: it signs clients in and out
// and resolves the current user.
type AuthService struct {
	verifier ports.CredentialVerifier
	sessions ports.SessionStore
	provider ports.AuthProvider
	roles    ports.RoleMapper
	ttl      time.Duration
	metrics  statsd.Sink
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	cfg := opts.Config
	if cfg.Provider != nil && cfg.Roles == nil {
		panic("RoleMapper is required when an AuthProvider is configured")
	}
	s := &AuthService{
		verifier: opts.Verifier,
		sessions: opts.Sessions,
		provider: cfg.Provider,
		roles:    cfg.Roles,
		ttl:      cfg.SessionTTL,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// FormLoginEnabled reports whether Login can be used.
func (s *AuthService) FormLoginEnabled() bool { return s.verifier != nil }

// OAuthEnabled reports whether BeginOAuth/CompleteOAuth can be used.
func (s *AuthService) OAuthEnabled() bool { return s.provider != nil }

// LoginInput is a login form submission.
type LoginInput struct {
	Identifier string
	Secret     string
	Role       string
	// ReplaceSessionID is the client's current session, if any. It is
	// deleted once the new session is saved.
	ReplaceSessionID string
}

// LoginResult contains the newly created session.
type LoginResult struct {
	Session domainauth.Session
}

// Login verifies a credential pair for a role and creates a session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if s.verifier == nil {
		return nil, ErrFormLoginDisabled
	}

	role, err := domainauth.ParseRole(in.Role)
	creds := domainauth.Credentials{Identifier: in.Identifier, Secret: in.Secret, Role: role}
	if err != nil || creds.Blank() {
		s.emitLogin("form", in.Role, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	ident, err := s.verifier.Verify(ctx, creds)
	if err != nil {
		if errors.Is(err, ports.ErrCredentialsRejected) {
			s.logger.InfoContext(ctx, "login rejected", "role", role, "error", err)
			s.emitLogin("form", string(role), ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		s.emitLogin("form", string(role), err)
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if ident.Role != "" && ident.Role != role {
		s.emitLogin("form", string(role), ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	ident.Role = role

	sess, err := s.startSession(ctx, ident, in.ReplaceSessionID)
	s.emitLogin("form", string(role), err)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "login succeeded", "role", sess.Role, "user_id", sess.UserID)
	return &LoginResult{Session: sess}, nil
}

// BeginLoginResult contains the result of beginning an OAuth login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginOAuth starts an IdP login and returns the URL to send the client to.
func (s *AuthService) BeginOAuth(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrOAuthDisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an OAuth login.
type CompleteLoginInput struct {
	Code             string
	State            string
	Nonce            string
	ReplaceSessionID string
}

// CompleteOAuth exchanges the authorization code, maps the identity's
// groups onto a portal role and creates a session.
func (s *AuthService) CompleteOAuth(ctx context.Context, in CompleteLoginInput) (*LoginResult, error) {
	if s.provider == nil {
		return nil, ErrOAuthDisabled
	}
	if in.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if in.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if in.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	ident, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, State: in.State, Nonce: in.Nonce})
	if err != nil {
		s.emitLogin("oauth", "", err)
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role, ok := s.roles.Map(ident.Groups)
	if !ok {
		s.logger.WarnContext(ctx, "oauth identity has no portal role", "user_id", ident.UserID, "groups", ident.Groups)
		s.emitLogin("oauth", "", ErrNoPortalRole)
		return nil, ErrNoPortalRole
	}
	ident.Role = role

	sess, err := s.startSession(ctx, ident, in.ReplaceSessionID)
	s.emitLogin("oauth", string(role), err)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "oauth login succeeded", "role", sess.Role, "user_id", sess.UserID)
	return &LoginResult{Session: sess}, nil
}

// startSession persists a fresh session for ident and then retires the
// client's previous one, so a save failure leaves the old session usable.
func (s *AuthService) startSession(ctx context.Context, ident domainauth.Identity, replace string) (domainauth.Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	if !ident.ExpiresAt.IsZero() && ident.ExpiresAt.Before(expires) {
		expires = ident.ExpiresAt
	}
	if !expires.After(now) {
		return domainauth.Session{}, apperrors.Internalf("identity expired at %s", expires.Format(time.RFC3339))
	}

	sess := domainauth.Session{
		ID:            uuid.NewString(),
		UserID:        ident.UserID,
		DisplayName:   ident.DisplayName,
		Email:         ident.Email,
		Role:          ident.Role,
		Authenticated: true,
		ExpiresAt:     expires,
	}
	if sess.DisplayName == "" {
		sess.DisplayName = sess.UserID
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", apperrors.MapStoreError(err))
	}

	if replace != "" && replace != sess.ID {
		if err := s.sessions.Delete(ctx, replace); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced session", "error", err)
		}
	}
	return sess, nil
}

// CurrentUser returns the live session for sessionID or ErrNoSession.
// Expired or malformed sessions are deleted on sight.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", apperrors.MapStoreError(err))
	}

	if !sess.Active(s.now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			return nil, errors.Join(ErrNoSession, fmt.Errorf("delete session: %w", delErr))
		}
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Logout deletes the session. It is idempotent and an empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		metrics.EmitLogout(s.metrics, metrics.ResultNoop)
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		metrics.EmitLogout(s.metrics, metrics.ResultError)
		return fmt.Errorf("delete session: %w", apperrors.MapStoreError(err))
	}
	metrics.EmitLogout(s.metrics, metrics.ResultSuccess)
	return nil
}

func (s *AuthService) emitLogin(method, role string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitLogin(s.metrics, metrics.LoginMetric{Method: method, Role: role, Result: result, Err: err})
}
