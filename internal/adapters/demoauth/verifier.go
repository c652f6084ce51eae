package demoauth

// Package demoauth provides the portal's demo CredentialVerifier.
// It performs no real credential check: any non-empty identifier/secret pair
// is accepted for the claimed role. Use it for demos and local development
// only; swap in staticauth or OIDC for anything real.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
)

// Config controls the demo verifier behavior.
type Config struct {
	// DisplayNames overrides the display name prefix per role.
	DisplayNames    map[domainauth.Role]string
	SessionDuration time.Duration // default 8h when zero
	// EmailDomain is appended to identifiers that carry no "@"; empty leaves Email blank.
	EmailDomain string
}

// Verifier implements ports.CredentialVerifier with demo semantics.
type Verifier struct {
	names           map[domainauth.Role]string
	sessionDuration time.Duration
	emailDomain     string
	now             func() time.Time
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier constructs a demo verifier from Config.
func NewVerifier(cfg Config) *Verifier {
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = 8 * time.Hour
	}
	names := map[domainauth.Role]string{
		domainauth.RoleStudent: "Student",
		domainauth.RoleStaff:   "Faculty",
		domainauth.RoleTPO:     "Placement Officer",
	}
	for r, n := range cfg.DisplayNames {
		if r.Valid() && strings.TrimSpace(n) != "" {
			names[r] = strings.TrimSpace(n)
		}
	}
	return &Verifier{
		names:           names,
		sessionDuration: dur,
		emailDomain:     strings.TrimPrefix(strings.TrimSpace(cfg.EmailDomain), "@"),
		now:             time.Now,
	}
}

// Verify accepts any non-blank pair for a valid role and returns a
// role-appropriate identity.
func (v *Verifier) Verify(_ context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if creds.Blank() {
		return domainauth.Identity{}, fmt.Errorf("%w: identifier and secret are required", ports.ErrCredentialsRejected)
	}
	if !creds.Role.Valid() {
		return domainauth.Identity{}, errors.Join(ports.ErrCredentialsRejected, domainauth.ErrUnknownRole)
	}

	id := strings.TrimSpace(creds.Identifier)
	ident := domainauth.Identity{
		UserID:      id,
		DisplayName: v.names[creds.Role] + " " + id,
		Role:        creds.Role,
		ExpiresAt:   v.now().Add(v.sessionDuration),
	}
	switch {
	case strings.Contains(id, "@"):
		ident.Email = id
	case v.emailDomain != "":
		ident.Email = id + "@" + v.emailDomain
	}
	return ident, nil
}
