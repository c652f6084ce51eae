package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode selects how users prove who they are.
type AuthMode string

const (
	// AuthModeDemo accepts any non-blank identifier and password (demo only).
	AuthModeDemo AuthMode = "demo"
	// AuthModeStatic checks passwords against bcrypt hashes from AUTH_STATIC_USERS.
	AuthModeStatic AuthMode = "static"
	// AuthModeOAuth uses OAuth/OIDC with IdP groups mapped to portal roles.
	AuthModeOAuth AuthMode = "oauth"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch AuthMode(v) {
	case AuthModeDemo, AuthModeStatic, AuthModeOAuth:
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: demo, static, oauth)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"` // defaults to APP_BASE_URL + "/auth/callback"
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	IssuerURL    string `env:"ISSUER_URL"`
	GroupsClaim  string `env:"GROUPS_CLAIM"  envDefault:"groups"`
}

// RoleGroups names the IdP group that grants each portal role.
type RoleGroups struct {
	Student string `env:"STUDENT_GROUP"`
	Staff   string `env:"STAFF_GROUP"`
	TPO     string `env:"TPO_GROUP"`
}

// Empty reports whether no group is mapped.
func (g RoleGroups) Empty() bool {
	return g.Student == "" && g.Staff == "" && g.TPO == ""
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential check is used.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"demo"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// Groups maps IdP groups to roles (used when Mode=oauth).
	Groups RoleGroups `envPrefix:"AUTH_"`

	// StaticUsers holds "role:identifier:bcrypt-hash[:display name]" entries
	// separated by ";" (used when Mode=static).
	StaticUsers []string `env:"AUTH_STATIC_USERS" envSeparator:";"`

	// DemoEmailDomain is appended to demo identifiers to form an email address.
	DemoEmailDomain string `env:"AUTH_DEMO_EMAIL_DOMAIN" envDefault:"campus.example.edu"`
}

// Sanitize trims whitespace from free-form values.
func (c *AuthConfig) Sanitize() {
	c.OAuth.ClientID = strings.TrimSpace(c.OAuth.ClientID)
	c.OAuth.IssuerURL = strings.TrimSpace(c.OAuth.IssuerURL)
	c.Groups.Student = strings.TrimSpace(c.Groups.Student)
	c.Groups.Staff = strings.TrimSpace(c.Groups.Staff)
	c.Groups.TPO = strings.TrimSpace(c.Groups.TPO)
	if c.Mode == "" {
		c.Mode = AuthModeDemo
	}

	users := c.StaticUsers[:0]
	for _, u := range c.StaticUsers {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	c.StaticUsers = users
}

// Validate checks that the selected mode has what it needs.
func (c *AuthConfig) Validate() error {
	switch c.Mode {
	case AuthModeDemo:
		return nil
	case AuthModeStatic:
		if len(c.StaticUsers) == 0 {
			return errors.New("AUTH_MODE=static requires AUTH_STATIC_USERS")
		}
		return nil
	case AuthModeOAuth:
		var missing []string
		if c.OAuth.IssuerURL == "" {
			missing = append(missing, "OAUTH_ISSUER_URL")
		}
		if c.OAuth.ClientID == "" {
			missing = append(missing, "OAUTH_CLIENT_ID")
		}
		if c.OAuth.ClientSecret == "" {
			missing = append(missing, "OAUTH_CLIENT_SECRET")
		}
		if c.Groups.Empty() {
			missing = append(missing, "AUTH_STUDENT_GROUP|AUTH_STAFF_GROUP|AUTH_TPO_GROUP")
		}
		if len(missing) > 0 {
			return fmt.Errorf("AUTH_MODE=oauth requires %s", strings.Join(missing, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unknown auth mode %q", c.Mode)
	}
}
