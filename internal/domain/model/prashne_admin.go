package model

import (
	"errors"
	"strings"
	"time"
)

// PlanTier is a company's subscription tier.
type PlanTier string

const (
	PlanTierFree       PlanTier = "FREE"
	PlanTierPro        PlanTier = "PRO"
	PlanTierEnterprise PlanTier = "ENTERPRISE"
)

// Valid reports whether the plan tier is supported.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanTierFree, PlanTierPro, PlanTierEnterprise:
		return true
	default:
		return false
	}
}

// Company is a tenant as served by the admin surface of the core API.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	PlanTier  PlanTier  `json:"plan_tier"`
	UserCount int       `json:"user_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyInput is the tenant creation payload.
type CompanyInput struct {
	Name     string   `json:"name"`
	Domain   string   `json:"domain,omitempty"`
	PlanTier PlanTier `json:"plan_tier"`
}

// Validate checks the tenant payload; an empty tier defaults to FREE.
func (in *CompanyInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.PlanTier == "" {
		in.PlanTier = PlanTierFree
	}
	if !in.PlanTier.Valid() {
		return errors.New("unsupported plan tier")
	}
	return nil
}

// User is a provisioned account as served by the admin surface.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CompanyID string    `json:"company_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInput is the account provisioning payload.
type UserInput struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

// Validate checks the provisioning payload.
func (in *UserInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return errors.New("full_name is required")
	}
	if strings.TrimSpace(in.CompanyID) == "" {
		return errors.New("company_id is required")
	}
	if strings.TrimSpace(in.Role) == "" {
		return errors.New("role is required")
	}
	return nil
}

// GlobalStats is the platform-wide counters on the super admin dashboard.
type GlobalStats struct {
	TotalCompanies     int `json:"total_companies"`
	TotalUsers         int `json:"total_users"`
	TotalResumesParsed int `json:"total_resumes_parsed"`
}
