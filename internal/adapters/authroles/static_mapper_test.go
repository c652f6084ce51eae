package authroles

import (
	"testing"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{StudentGroup: "students", StaffGroup: "faculty", TPOGroup: "placement-cell"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
		ok     bool
	}{
		{"student", []string{"students"}, domainauth.RoleStudent, true},
		{"staff", []string{"library", "faculty"}, domainauth.RoleStaff, true},
		{"tpo wins over staff", []string{"faculty", "placement-cell"}, domainauth.RoleTPO, true},
		{"no match", []string{"alumni"}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Map(tt.groups)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Map(%v) = %q, %v; want %q, %v", tt.groups, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStaticRoleMapper_EmptyGroupNeverMatches(t *testing.T) {
	m := StaticRoleMapper{StaffGroup: "faculty"}
	if _, ok := m.Map([]string{""}); ok {
		t.Fatal("blank group must not map to a role")
	}
}
