package auth

import (
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "student", want: RoleStudent},
		{in: "STAFF", want: RoleStaff},
		{in: " tpo ", want: RoleTPO},
		{in: "admin", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownRole) {
				t.Fatalf("ParseRole(%q) error = %v, want ErrUnknownRole", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRole_HomePathAndLabel(t *testing.T) {
	for _, r := range AllRoles() {
		if r.HomePath() != "/"+string(r) {
			t.Fatalf("unexpected home for %s: %s", r, r.HomePath())
		}
		if r.Label() == "" {
			t.Fatalf("missing label for %s", r)
		}
	}
	if Role("bogus").HomePath() != "/" {
		t.Fatalf("unknown role should map to /")
	}
}

func TestRole_OwnsPath(t *testing.T) {
	if !RoleStaff.OwnsPath("/staff") || !RoleStaff.OwnsPath("/staff/leaves") {
		t.Fatalf("staff should own its subtree")
	}
	if RoleStaff.OwnsPath("/staffroom") {
		t.Fatalf("prefix match must respect path segments")
	}
	if r, ok := RoleForPath("/tpo/companies"); !ok || r != RoleTPO {
		t.Fatalf("RoleForPath = %q, %v", r, ok)
	}
	if _, ok := RoleForPath("/login"); ok {
		t.Fatalf("/login belongs to no role")
	}
}

func TestCredentials_Blank(t *testing.T) {
	if !(Credentials{Identifier: "  ", Secret: "x"}).Blank() {
		t.Fatalf("whitespace identifier should be blank")
	}
	if (Credentials{Identifier: "s1", Secret: "pw"}).Blank() {
		t.Fatalf("did not expect blank")
	}
}

func TestSession_Active(t *testing.T) {
	now := time.Now()
	s := Session{ID: "abc", Role: RoleStudent, Authenticated: true, ExpiresAt: now.Add(time.Hour)}
	if !s.Active(now) {
		t.Fatalf("expected active session")
	}
	if s.Active(now.Add(2 * time.Hour)) {
		t.Fatalf("expired session reported active")
	}
	s.Authenticated = false
	if s.Active(now) {
		t.Fatalf("unauthenticated session reported active")
	}
}
