package bootstrap

import (
	"log/slog"

	"github.com/ujwal209/prashne-ui-api/config"
	"github.com/ujwal209/prashne-ui-api/internal/adapters/authroles"
	"github.com/ujwal209/prashne-ui-api/internal/adapters/devauth"
	"github.com/ujwal209/prashne-ui-api/internal/adapters/oidc"
	"github.com/ujwal209/prashne-ui-api/internal/ports"
)

// SSOSetup carries the optional single sign-on pieces of the auth service.
// Provider is nil in password-only mode; the sign-in screen then offers no
// SSO button and the callback route answers 503.
type SSOSetup struct {
	Provider ports.SSOProvider
	Roles    ports.RoleMapper
}

// BuildSSO creates the SSO provider for the configured auth mode.
// Password mode needs no provider; a misconfigured sso mode logs a warning
// and disables SSO instead of failing startup, so password sign-in keeps
// working while the IdP config is fixed.
func BuildSSO(cfg config.AuthConfig, logger *slog.Logger) SSOSetup {
	if logger == nil {
		logger = slog.Default()
	}

	roleMapper := authroles.StaticRoleMapper{
		SuperAdminGroup: cfg.Groups.SuperAdmin,
		HRAdminGroup:    cfg.Groups.HRAdmin,
		RecruiterGroup:  cfg.Groups.HRUser,
		StaffGroup:      cfg.Groups.HRStaff,
		CandidateGroup:  cfg.Groups.Candidate,
	}

	switch cfg.Mode {
	case config.AuthModeMock:
		return buildDevSSO(cfg, roleMapper, logger)
	case config.AuthModeSSO:
		return buildOIDCSSO(cfg, roleMapper, logger)
	default:
		return SSOSetup{}
	}
}

func buildDevSSO(cfg config.AuthConfig, roles ports.RoleMapper, logger *slog.Logger) SSOSetup {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      cfg.DevAuth.UserID,
		Email:       cfg.DevAuth.Email,
		DisplayName: cfg.DevAuth.DisplayName,
		Groups:      cfg.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, SSO disabled", "error", err)
		return SSOSetup{}
	}
	return SSOSetup{Provider: prov, Roles: roles}
}

func buildOIDCSSO(cfg config.AuthConfig, roles ports.RoleMapper, logger *slog.Logger) SSOSetup {
	// Only enable when fully configured
	sso := cfg.SSO
	if sso.DiscoveryURL == "" || sso.ClientID == "" || sso.ClientSecret == "" {
		logger.Warn("AuthModeSSO selected but required config missing; SSO disabled",
			"discovery_url_empty", sso.DiscoveryURL == "",
			"client_id_empty", sso.ClientID == "",
			"client_secret_empty", sso.ClientSecret == "",
		)
		return SSOSetup{}
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     sso.ClientID,
		ClientSecret: sso.ClientSecret,
		RedirectURL:  sso.RedirectURL,
		Scope:        sso.Scope,
		DiscoveryURL: sso.DiscoveryURL,
		LogoutURL:    sso.LogoutURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		return SSOSetup{}
	}
	return SSOSetup{Provider: prov, Roles: roles}
}
