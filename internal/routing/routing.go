// Package routing holds the navigation policy: which screen a role lands on
// after sign-in, and which roles may enter each guarded area. It is pure
// policy with no HTTP dependencies; the middleware layer enforces it.
package routing

import (
	"net/url"
	"strings"

	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

// Well-known application routes.
const (
	LoginRoute       = "/login"
	AdminRoute       = "/admin"
	HRAdminRoute     = "/hr/admin"
	HRDashboardRoute = "/hr/dashboard"
	LeaderboardRoute = "/hr/leaderboard"
)

// LandingRouteFor maps a role to its post-sign-in screen. The mapping is
// total: an unrecognized role lands on the recruiter dashboard rather than a
// dead end, matching the fallback branch of the sign-in flow.
func LandingRouteFor(role domainauth.Role) string {
	switch role {
	case domainauth.RoleSuperAdmin:
		return AdminRoute
	case domainauth.RoleHRAdmin:
		return HRAdminRoute
	default:
		return HRDashboardRoute
	}
}

// LoginRedirect builds the sign-in URL carrying the originally requested
// path, so the browser returns there after authenticating. Absolute targets
// and targets pointing back at the login screen are dropped to keep the
// redirect on-site and loop-free.
func LoginRedirect(target string) string {
	if !ValidReturnTarget(target) {
		return LoginRoute
	}
	return LoginRoute + "?redirect_uri=" + url.QueryEscape(target)
}

// ReturnTarget extracts and validates the redirect_uri query parameter from
// a sign-in request. Invalid or off-site targets resolve to the empty string;
// the caller then falls back to LandingRouteFor.
func ReturnTarget(query url.Values) string {
	target := query.Get("redirect_uri")
	if !ValidReturnTarget(target) {
		return ""
	}
	return target
}

// ValidReturnTarget accepts only same-site absolute paths. Anything with a
// scheme or host ("//evil.example", "https://…") is an open-redirect vector.
func ValidReturnTarget(target string) bool {
	if target == "" || target == LoginRoute {
		return false
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return false
	}
	if strings.ContainsAny(target, "\\\r\n") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	return true
}

// Allowed reports whether role may enter an area guarded for required.
// Access is exact plus two rules: super admins reach every area, HR admins
// additionally reach recruiter areas, and hr_user/hr_staff form a single
// recruiter tier that satisfies either guard. There is no general hierarchy
// beyond that.
func Allowed(role, required domainauth.Role) bool {
	if role == required {
		return true
	}
	switch required {
	case domainauth.RoleHRUser, domainauth.RoleHRStaff:
		return role == domainauth.RoleHRUser ||
			role == domainauth.RoleHRStaff ||
			role == domainauth.RoleHRAdmin ||
			role == domainauth.RoleSuperAdmin
	case domainauth.RoleHRAdmin:
		return role == domainauth.RoleSuperAdmin
	default:
		return false
	}
}
