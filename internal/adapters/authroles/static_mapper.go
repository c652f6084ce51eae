package authroles

import (
	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to portal roles by simple string membership.
// When a user belongs to several mapped groups the first match in
// TPO, Staff, Student order wins.
type StaticRoleMapper struct {
	StudentGroup string
	StaffGroup   string
	TPOGroup     string
}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.TPOGroup, domainauth.RoleTPO},
		{m.StaffGroup, domainauth.RoleStaff},
		{m.StudentGroup, domainauth.RoleStudent},
	}
	for _, o := range ordered {
		if o.group == "" {
			continue
		}
		for _, g := range groups {
			if g == o.group {
				return o.role, true
			}
		}
	}
	return "", false
}
