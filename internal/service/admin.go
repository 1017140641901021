package service

import (
	"context"
	"fmt"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
)

// AdminService proxies the platform administration surface. The core API
// enforces super admin access; the route guard keeps non-admins out before
// a request ever reaches it.
type AdminService struct {
	api *apiclient.Client
}

// NewAdminService constructs a new AdminService.
func NewAdminService(api *apiclient.Client) *AdminService {
	return &AdminService{api: api}
}

// Companies lists all tenant companies.
func (s *AdminService) Companies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := s.api.Get(ctx, "/admin/companies", nil, &companies); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany provisions a new tenant company.
func (s *AdminService) CreateCompany(ctx context.Context, in model.CompanyInput) (model.Company, error) {
	if err := in.Validate(); err != nil {
		return model.Company{}, apperrors.Validation(err.Error())
	}
	var company model.Company
	if err := s.api.Post(ctx, "/admin/companies", in, &company); err != nil {
		return model.Company{}, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

// Users lists all platform users across companies.
func (s *AdminService) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.api.Get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser provisions a user inside a company.
func (s *AdminService) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	if err := in.Validate(); err != nil {
		return model.User{}, apperrors.Validation(err.Error())
	}
	var user model.User
	if err := s.api.Post(ctx, "/admin/users", in, &user); err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Stats returns platform-wide counters.
func (s *AdminService) Stats(ctx context.Context) (model.GlobalStats, error) {
	var stats model.GlobalStats
	if err := s.api.Get(ctx, "/admin/stats", nil, &stats); err != nil {
		return model.GlobalStats{}, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}
