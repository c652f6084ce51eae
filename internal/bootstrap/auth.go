package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/campus-portal/config"
	"github.com/target/campus-portal/internal/adapters/authroles"
	"github.com/target/campus-portal/internal/adapters/demoauth"
	"github.com/target/campus-portal/internal/adapters/oidc"
	"github.com/target/campus-portal/internal/adapters/staticauth"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/ports"
	"github.com/target/campus-portal/internal/service"
)

// AuthDeps contains configuration for the auth service.
type AuthDeps struct {
	Auth     config.AuthConfig
	Session  config.SessionConfig
	Sessions ports.SessionStore
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// BuildAuthService creates an auth service for the configured auth mode.
func BuildAuthService(ctx context.Context, deps AuthDeps) (*service.AuthService, error) {
	opts := service.AuthServiceOptions{
		Sessions: deps.Sessions,
		Config: service.AuthServiceConfig{
			SessionTTL: deps.Session.TTL,
			Metrics:    deps.Metrics,
			Logger:     deps.Logger,
		},
	}

	switch deps.Auth.Mode {
	case config.AuthModeDemo, "":
		if deps.Logger != nil {
			deps.Logger.WarnContext(ctx, "demo auth enabled: any non-empty ID and password signs in")
		}
		opts.Verifier = demoauth.NewVerifier(demoauth.Config{
			SessionDuration: deps.Session.TTL,
			EmailDomain:     deps.Auth.DemoEmailDomain,
		})

	case config.AuthModeStatic:
		users, err := staticauth.ParseUsers(deps.Auth.StaticUsers)
		if err != nil {
			return nil, fmt.Errorf("parse static users: %w", err)
		}
		v, err := staticauth.NewVerifier(users, deps.Session.TTL)
		if err != nil {
			return nil, err
		}
		opts.Verifier = v

	case config.AuthModeOAuth:
		oauth := deps.Auth.OAuth
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			IssuerURL:    oauth.IssuerURL,
			GroupsClaim:  oauth.GroupsClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		opts.Config.Provider = prov
		opts.Config.Roles = authroles.StaticRoleMapper{
			StudentGroup: deps.Auth.Groups.Student,
			StaffGroup:   deps.Auth.Groups.Staff,
			TPOGroup:     deps.Auth.Groups.TPO,
		}

	default:
		return nil, fmt.Errorf("unknown auth mode %q", deps.Auth.Mode)
	}

	return service.NewAuthService(opts), nil
}
