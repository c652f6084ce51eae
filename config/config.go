package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// oauthCallbackPath is where the IdP returns the browser.
const oauthCallbackPath = "/auth/callback"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: authentication mode, OIDC and static users
//   - session.go: session backend, lifetimes and Redis
//   - http.go: HTTP server configuration
//   - observability.go: StatsD metrics
//   - portal.go: feature page and avatar limits
type AppConfig struct {
	// IsDev controls development mode behavior (insecure cookies allowed, text logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is parsed by slog (debug, info, warn, error).
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	Auth    AuthConfig
	Session SessionConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	HTTP    HTTPConfig

	Observability ObservabilityConfig
	Portal        PortalConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.Auth.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize(c.IsDev)
	c.Auth.OAuth.RedirectURL = strings.TrimSpace(c.Auth.OAuth.RedirectURL)
	if c.Auth.OAuth.RedirectURL == "" {
		c.Auth.OAuth.RedirectURL = c.HTTP.BaseURL + oauthCallbackPath
	}
	c.Observability.Sanitize()
	c.Portal.Sanitize()
}

// Validate reports settings that cannot work together. Call it after Sanitize.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.HTTP.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Session.Backend == SessionBackendRedis && strings.TrimSpace(c.Redis.URI) == "" &&
		!c.Redis.UseCluster && !c.Redis.UseSentinel {
		errs = append(errs, errors.New("SESSION_BACKEND=redis requires REDIS_URI"))
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
