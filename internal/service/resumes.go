package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ujwal209/prashne-ui-api/internal/apiclient"
	"github.com/ujwal209/prashne-ui-api/internal/domain/model"
	apperrors "github.com/ujwal209/prashne-ui-api/internal/errors"
)

// ResumeService proxies the resume ingestion surface of the core API. Uploads
// stream through unchanged; the gateway never buffers or parses resume files.
type ResumeService struct {
	api *apiclient.Client
}

// NewResumeService constructs a new ResumeService.
func NewResumeService(api *apiclient.Client) *ResumeService {
	return &ResumeService{api: api}
}

// List returns the parsed resumes visible to the caller's company.
func (s *ResumeService) List(ctx context.Context) ([]model.Resume, error) {
	var resumes []model.Resume
	if err := s.api.Get(ctx, "/resumes", nil, &resumes); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// Stats returns the aggregate resume counters.
func (s *ResumeService) Stats(ctx context.Context) (model.ResumeStats, error) {
	var stats model.ResumeStats
	if err := s.api.Get(ctx, "/resumes/stats", nil, &stats); err != nil {
		return model.ResumeStats{}, fmt.Errorf("resume stats: %w", err)
	}
	return stats, nil
}

// Delete removes a resume from the talent pool.
func (s *ResumeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("resume id is required")
	}
	if err := s.api.Delete(ctx, "/resumes/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}

// Upload streams a multipart body through to the core API's parser. The
// contentType must be the original multipart/form-data header including its
// boundary, so the body passes through byte for byte.
func (s *ResumeService) Upload(ctx context.Context, body io.Reader, contentType string) (model.UploadReceipt, error) {
	if contentType == "" {
		return model.UploadReceipt{}, apperrors.Validation("content type is required")
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/resumes/upload", nil, body, contentType)
	if err != nil {
		return model.UploadReceipt{}, fmt.Errorf("upload resumes: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var receipt model.UploadReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return model.UploadReceipt{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode upload receipt")
	}
	return receipt, nil
}
