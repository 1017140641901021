package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
)

// InterviewService proxies the interview surface of the core API, including
// room token issuance for the live interview room.
type InterviewService struct {
	api *apiclient.Client
}

// NewInterviewService constructs a new InterviewService.
func NewInterviewService(api *apiclient.Client) *InterviewService {
	return &InterviewService{api: api}
}

// List returns the caller's interview sessions, paged.
func (s *InterviewService) List(ctx context.Context, limit, offset int) (model.InterviewPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var page model.InterviewPage
	if err := s.api.Get(ctx, "/interviews/user/list", query, &page); err != nil {
		return model.InterviewPage{}, fmt.Errorf("list interviews: %w", err)
	}
	return page, nil
}

// Schedule pairs a job with a candidate resume and creates a session.
func (s *InterviewService) Schedule(ctx context.Context, in model.ScheduleInterviewInput) (model.ScheduledInterview, error) {
	if err := in.Validate(); err != nil {
		return model.ScheduledInterview{}, apperrors.Validation(err.Error())
	}
	var scheduled model.ScheduledInterview
	if err := s.api.Post(ctx, "/interviews", in, &scheduled); err != nil {
		return model.ScheduledInterview{}, fmt.Errorf("schedule interview: %w", err)
	}
	return scheduled, nil
}

// RoomToken issues an entry token for the live interview room.
func (s *InterviewService) RoomToken(ctx context.Context, sessionID string) (model.RoomToken, error) {
	if sessionID == "" {
		return model.RoomToken{}, apperrors.Validation("session id is required")
	}
	var token model.RoomToken
	if err := s.api.Get(ctx, "/livekit/token/"+url.PathEscape(sessionID), nil, &token); err != nil {
		return model.RoomToken{}, fmt.Errorf("issue room token: %w", err)
	}
	return token, nil
}
