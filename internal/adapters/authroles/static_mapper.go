// Package authroles maps identity provider groups to application roles.
package authroles

import (
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules, most
// privileged group first. A user in none of the configured groups gets
// RoleUnknown, which no guard accepts.
type StaticRoleMapper struct {
	SuperAdminGroup string
	HRAdminGroup    string
	RecruiterGroup  string
	StaffGroup      string
	CandidateGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	rules := []struct {
		group string
		role  domainauth.Role
	}{
		{m.SuperAdminGroup, domainauth.RoleSuperAdmin},
		{m.HRAdminGroup, domainauth.RoleHRAdmin},
		{m.RecruiterGroup, domainauth.RoleHRUser},
		{m.StaffGroup, domainauth.RoleHRStaff},
		{m.CandidateGroup, domainauth.RoleCandidate},
	}
	for _, rule := range rules {
		if rule.group == "" {
			continue
		}
		for _, g := range groups {
			if g == rule.group {
				return rule.role
			}
		}
	}
	return domainauth.RoleUnknown
}
