package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
)

// JobService proxies the job posting surface of the core API, including the
// AI description generator and the candidate matcher.
type JobService struct {
	api *apiclient.Client
}

// NewJobService constructs a new JobService.
func NewJobService(api *apiclient.Client) *JobService {
	return &JobService{api: api}
}

// List returns all job postings visible to the caller's company.
func (s *JobService) List(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := s.api.Get(ctx, "/jobs", nil, &jobs); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Create validates and forwards a new job posting.
func (s *JobService) Create(ctx context.Context, in model.JobInput) (model.Job, error) {
	if err := in.Validate(); err != nil {
		return model.Job{}, apperrors.Validation(err.Error())
	}
	var job model.Job
	if err := s.api.Post(ctx, "/jobs", in, &job); err != nil {
		return model.Job{}, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Update validates and forwards changes to an existing posting.
func (s *JobService) Update(ctx context.Context, id string, in model.JobInput) (model.Job, error) {
	if id == "" {
		return model.Job{}, apperrors.Validation("job id is required")
	}
	if err := in.Validate(); err != nil {
		return model.Job{}, apperrors.Validation(err.Error())
	}
	var job model.Job
	if err := s.api.Put(ctx, "/jobs/"+url.PathEscape(id), in, &job); err != nil {
		return model.Job{}, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes a posting.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("job id is required")
	}
	if err := s.api.Delete(ctx, "/jobs/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// Generate asks the AI generator to draft a posting from a free-form prompt.
func (s *JobService) Generate(ctx context.Context, in model.GenerateJobInput) (model.GeneratedJob, error) {
	if err := in.Validate(); err != nil {
		return model.GeneratedJob{}, apperrors.Validation(err.Error())
	}
	var draft model.GeneratedJob
	if err := s.api.Post(ctx, "/jobs/generate", in, &draft); err != nil {
		return model.GeneratedJob{}, fmt.Errorf("generate job: %w", err)
	}
	return draft, nil
}

// Match scores the candidate pool against a posting.
func (s *JobService) Match(ctx context.Context, in model.MatchInput) ([]model.MatchResult, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var results []model.MatchResult
	if err := s.api.Post(ctx, "/jobs/match", in, &results); err != nil {
		return nil, fmt.Errorf("match job: %w", err)
	}
	return results, nil
}

// MatchHistory lists past match runs, newest first.
func (s *JobService) MatchHistory(ctx context.Context) ([]model.MatchRecord, error) {
	var records []model.MatchRecord
	if err := s.api.Get(ctx, "/jobs/matches", nil, &records); err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}
	return records, nil
}
