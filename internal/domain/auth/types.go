package auth

// Package auth contains domain-level types for identity and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role is the application's authorization role, decoded once from the
// backend's role claim at the sign-in boundary. Keep string form for easy
// persistence and cookies. Valid values are defined as constants below.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleHRAdmin    Role = "hr_admin"
	RoleHRUser     Role = "hr_user"
	RoleHRStaff    Role = "hr_staff"
	RoleCandidate  Role = "candidate"

	// RoleUnknown is the explicit fallback for role claims this build does
	// not recognize. Never an error: unknowns degrade to the recruiter
	// dashboard rather than failing the sign-in.
	RoleUnknown Role = "unknown"
)

// ParseRole decodes a raw role claim into a Role. It is total: any claim
// outside the closed set maps to RoleUnknown.
func ParseRole(claim string) Role {
	switch Role(claim) {
	case RoleSuperAdmin, RoleHRAdmin, RoleHRUser, RoleHRStaff, RoleCandidate:
		return Role(claim)
	default:
		return RoleUnknown
	}
}

// IsHR reports whether the role belongs to the HR area (recruiter or admin).
func (r Role) IsHR() bool {
	return r == RoleHRAdmin || r == RoleHRUser || r == RoleHRStaff
}

// Identity represents the signed-in principal. At most one Identity is
// materialized per session at a time; switching identities always passes
// through a full clear.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Role        Role   `json:"role"`
}

// Credential is the access/refresh token pair used to authenticate outbound
// backend requests. Owned exclusively by the credential store; the request
// pipeline re-reads it on every call and never keeps a copy.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry at now.
// A zero ExpiresAt means the provider did not communicate an expiry and the
// token is treated as live until the provider says otherwise.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// IsZero reports whether the credential carries no tokens at all.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Session is the server-side record persisted for an authenticated browser
// session. ID is an opaque identifier carried by the session cookie.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity derives the Identity held by this session.
func (s Session) Identity() Identity {
	return Identity{
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
	}
}
