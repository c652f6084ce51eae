package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const defaultBaseURL = "http://localhost:8080"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the externally visible base URL (e.g., "https://portal.example.edu").
	// The OAuth callback defaults to BaseURL + "/auth/callback".
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies forces the Secure attribute even behind plain-HTTP proxies.
	SecureCookies bool `env:"APP_SECURE_COOKIES" envDefault:"true"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    envDefault:"15s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize(isDev bool) {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	if h.BaseURL == "" {
		h.BaseURL = defaultBaseURL
	}
	h.CookieDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), "."))
	if h.ReadHeaderTimeout <= 0 {
		h.ReadHeaderTimeout = 10 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 15 * time.Second
	}
	// Local development runs over plain HTTP.
	if isDev {
		h.SecureCookies = false
	}
}

// Validate checks the base URL and that the cookie domain is one a browser
// will accept. Call it after Sanitize.
func (h *HTTPConfig) Validate() error {
	var errs []error
	base, err := url.Parse(h.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		errs = append(errs, fmt.Errorf("APP_BASE_URL must be an absolute http(s) URL, got %q", h.BaseURL))
		base = nil
	}

	if h.CookieDomain != "" {
		if err := checkCookieDomain(h.CookieDomain); err != nil {
			errs = append(errs, err)
		} else if base != nil && !domainMatches(base.Hostname(), h.CookieDomain) {
			errs = append(errs, fmt.Errorf("APP_COOKIE_DOMAIN %q does not cover APP_BASE_URL host %q",
				h.CookieDomain, base.Hostname()))
		}
	}
	return errors.Join(errs...)
}

// checkCookieDomain rejects public suffixes such as "edu" or "github.io";
// browsers drop cookies scoped to them. Single-label hosts outside the
// list (localhost) are allowed.
func checkCookieDomain(domain string) error {
	suffix, icann := publicsuffix.PublicSuffix(domain)
	if suffix == domain && (icann || strings.Contains(domain, ".")) {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", domain)
	}
	return nil
}

func domainMatches(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
