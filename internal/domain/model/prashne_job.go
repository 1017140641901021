package model

import (
	"errors"
	"strings"
	"time"
)

const maxJobTitleLen = 255

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether the job status is supported.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusClosed:
		return true
	default:
		return false
	}
}

// ParseJobStatus normalizes a status string and reports whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Job is a job posting as served by the core API.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Location     string    `json:"location,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Status       JobStatus `json:"status"`
	CompanyID    string    `json:"company_id,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// JobInput is the create/update payload for a job posting.
type JobInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location,omitempty"`
	Salary       string   `json:"salary,omitempty"`
}

// Validate checks the payload before it is forwarded to the core API.
func (in *JobInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return errors.New("title is required")
	}
	if len(in.Title) > maxJobTitleLen {
		return errors.New("title is too long")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

// GenerateJobInput asks the AI generator to draft a posting from a prompt.
type GenerateJobInput struct {
	Prompt string `json:"prompt"`
}

// Validate checks the generation prompt.
func (in *GenerateJobInput) Validate() error {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if in.Prompt == "" {
		return errors.New("prompt is required")
	}
	return nil
}

// GeneratedJob is the AI generator's draft posting.
type GeneratedJob struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location,omitempty"`
	Salary       string   `json:"salary,omitempty"`
}

// MatchInput selects the candidate pool to score against a job posting.
type MatchInput struct {
	JobID     string   `json:"job_id"`
	ResumeIDs []string `json:"resume_ids,omitempty"`
}

// Validate checks the match request.
func (in *MatchInput) Validate() error {
	if strings.TrimSpace(in.JobID) == "" {
		return errors.New("job_id is required")
	}
	return nil
}

// MatchResult is one scored candidate from the AI matcher.
type MatchResult struct {
	CandidateID   string   `json:"candidate_id"`
	CandidateName string   `json:"candidate_name"`
	Score         float64  `json:"score"`
	Reason        string   `json:"reason"`
	MissingSkills []string `json:"missing_skills"`
}

// MatchRecord is a historical match run, as listed on the match history screen.
type MatchRecord struct {
	ID        string        `json:"id"`
	JobID     string        `json:"job_id"`
	JobTitle  string        `json:"job_title,omitempty"`
	Results   []MatchResult `json:"results"`
	CreatedBy string        `json:"created_by,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
