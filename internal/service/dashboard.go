package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
)

// DashboardService proxies the recruiter dashboard widgets.
type DashboardService struct {
	api *apiclient.Client
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(api *apiclient.Client) *DashboardService {
	return &DashboardService{api: api}
}

// Stats returns the headline counters for the caller's company.
func (s *DashboardService) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := s.api.Get(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// Activities returns the most recent activity feed entries, newest first.
func (s *DashboardService) Activities(ctx context.Context, limit int) ([]model.Activity, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var activities []model.Activity
	if err := s.api.Get(ctx, "/dashboard/activities", query, &activities); err != nil {
		return nil, fmt.Errorf("dashboard activities: %w", err)
	}
	return activities, nil
}

// Overview fetches the stats, activity feed, and leaderboard concurrently
// and bundles them for the dashboard's first render. A failure in any one
// fetch fails the whole call.
func (s *DashboardService) Overview(ctx context.Context, activityLimit int) (model.DashboardOverview, error) {
	var overview model.DashboardOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		if err != nil {
			return err
		}
		overview.Stats = stats
		return nil
	})
	g.Go(func() error {
		activities, err := s.Activities(gctx, activityLimit)
		if err != nil {
			return err
		}
		overview.Activities = activities
		return nil
	})
	g.Go(func() error {
		entries, err := s.Leaderboard(gctx)
		if err != nil {
			return err
		}
		overview.Leaderboard = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.DashboardOverview{}, err
	}
	return overview, nil
}

// Leaderboard returns recruiters ranked by parsed resume count.
func (s *DashboardService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	if err := s.api.Get(ctx, "/analytics/leaderboard", nil, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}
