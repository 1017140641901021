package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{
		SuperAdminGroup: "prashne-platform-admins",
		HRAdminGroup:    "prashne-hr-admins",
		RecruiterGroup:  "prashne-recruiters",
		StaffGroup:      "prashne-hr-staff",
	}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"super admin", []string{"prashne-platform-admins"}, domainauth.RoleSuperAdmin},
		{"hr admin", []string{"other", "prashne-hr-admins"}, domainauth.RoleHRAdmin},
		{"recruiter", []string{"prashne-recruiters"}, domainauth.RoleHRUser},
		{"staff", []string{"prashne-hr-staff"}, domainauth.RoleHRStaff},
		{"most privileged wins", []string{"prashne-recruiters", "prashne-hr-admins"}, domainauth.RoleHRAdmin},
		{"no match", []string{"unrelated"}, domainauth.RoleUnknown},
		{"empty", nil, domainauth.RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapperUnconfiguredGroupsNeverMatch(t *testing.T) {
	mapper := StaticRoleMapper{RecruiterGroup: "prashne-recruiters"}
	assert.Equal(t, domainauth.RoleUnknown, mapper.Map([]string{""}))
	assert.Equal(t, domainauth.RoleHRUser, mapper.Map([]string{"prashne-recruiters"}))
}
