package guard

// Package guard decides whether a request may enter a role-scoped route subtree.
// Decisions are pure values; callers apply any side effect the decision names.

import (
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Outcome identifies what the guard wants done with a request.
type Outcome string

const (
	// OutcomeAllow renders the requested subtree.
	OutcomeAllow Outcome = "allow"
	// OutcomeLogin redirects to the login screen and remembers the destination.
	OutcomeLogin Outcome = "login"
	// OutcomeHome redirects an authenticated user to their own role home.
	OutcomeHome Outcome = "home"
)

// Input is everything the guard looks at for one request.
type Input struct {
	Session  *domainauth.Session // nil when no session cookie resolved
	Required domainauth.Role
	Path     string // request URI (path plus optional query)
	Now      time.Time
}

// Decision is the result of evaluating Input.
type Decision struct {
	Outcome Outcome
	// Location is the redirect target; empty for OutcomeAllow.
	Location string
	// Remember is the destination to record as the pending marker.
	// Only set for OutcomeLogin.
	Remember string
}

// Redirects reports whether the decision sends the client elsewhere.
func (d Decision) Redirects() bool { return d.Outcome != OutcomeAllow }

// Decide evaluates the guard contract:
//  1. no active session: remember the path and go to login
//  2. role mismatch: go to the session's own home, marker untouched
//  3. otherwise allow
func Decide(in Input) Decision {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	if in.Session == nil || !in.Session.Active(now) {
		return Decision{
			Outcome:  OutcomeLogin,
			Location: LoginPath,
			Remember: SafeDestination(in.Path),
		}
	}

	if in.Session.Role != in.Required {
		return Decision{
			Outcome:  OutcomeHome,
			Location: in.Session.Role.HomePath(),
		}
	}

	return Decision{Outcome: OutcomeAllow}
}

// PostLogin picks where to send a freshly authenticated user.
// A pending marker wins when it is a safe same-origin path; otherwise the
// role home is used.
func PostLogin(marker string, role domainauth.Role) string {
	if dest := SafeDestination(marker); dest != "" && dest != LoginPath {
		return dest
	}
	return role.HomePath()
}

// SafeDestination returns candidate when it is a same-origin relative path
// starting with a single "/", and "" otherwise.
func SafeDestination(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.HasPrefix(candidate, "//") || strings.Contains(candidate, `\`) {
		return ""
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return candidate
}
