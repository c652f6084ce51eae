package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

func activeSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:            "sess-1",
		UserID:        "u-1",
		Role:          role,
		Authenticated: true,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

func TestDecide_UnauthenticatedRemembersPath(t *testing.T) {
	for _, role := range domainauth.AllRoles() {
		path := role.HomePath() + "/dashboard"
		d := Decide(Input{Required: role, Path: path})

		assert.Equal(t, OutcomeLogin, d.Outcome, role)
		assert.Equal(t, LoginPath, d.Location)
		assert.Equal(t, path, d.Remember)
		assert.True(t, d.Redirects())
	}
}

func TestDecide_ExpiredSessionTreatedAsAnonymous(t *testing.T) {
	sess := activeSession(domainauth.RoleStaff)
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	d := Decide(Input{Session: sess, Required: domainauth.RoleStaff, Path: "/staff/leaves"})

	assert.Equal(t, OutcomeLogin, d.Outcome)
	assert.Equal(t, "/staff/leaves", d.Remember)
}

func TestDecide_RoleMismatchGoesHomeWithoutMarker(t *testing.T) {
	d := Decide(Input{Session: activeSession(domainauth.RoleStudent), Required: domainauth.RoleTPO, Path: "/tpo"})

	assert.Equal(t, OutcomeHome, d.Outcome)
	assert.Equal(t, "/student", d.Location)
	assert.Empty(t, d.Remember)
}

func TestDecide_RoleMismatchMatrix(t *testing.T) {
	for _, have := range domainauth.AllRoles() {
		for _, want := range domainauth.AllRoles() {
			d := Decide(Input{Session: activeSession(have), Required: want, Path: want.HomePath()})
			if have == want {
				assert.Equal(t, OutcomeAllow, d.Outcome)
				assert.False(t, d.Redirects())
				continue
			}
			assert.Equal(t, OutcomeHome, d.Outcome)
			assert.Equal(t, have.HomePath(), d.Location)
		}
	}
}

func TestDecide_UnsafePathNotRemembered(t *testing.T) {
	d := Decide(Input{Required: domainauth.RoleStaff, Path: "//evil.example.com/x"})

	assert.Equal(t, OutcomeLogin, d.Outcome)
	assert.Empty(t, d.Remember)
}

func TestPostLogin(t *testing.T) {
	assert.Equal(t, "/staff/leaves", PostLogin("/staff/leaves", domainauth.RoleStaff))
	assert.Equal(t, "/staff", PostLogin("", domainauth.RoleStaff))
	assert.Equal(t, "/tpo", PostLogin("https://evil.example.com/", domainauth.RoleTPO))
	assert.Equal(t, "/student", PostLogin(LoginPath, domainauth.RoleStudent))
}

func TestSafeDestination(t *testing.T) {
	tests := map[string]string{
		"/student/results?term=2": "/student/results?term=2",
		"":                        "",
		"relative":                "",
		"//host/path":             "",
		"http://host/path":        "",
		`/\host`:                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeDestination(in), in)
	}
}
