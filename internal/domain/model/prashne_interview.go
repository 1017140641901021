package model

import (
	"errors"
	"strings"
	"time"
)

// InterviewStatus is the lifecycle state of an interview session.
type InterviewStatus string

const (
	InterviewStatusPending    InterviewStatus = "pending"
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusFailed     InterviewStatus = "failed"
)

// Valid reports whether the interview status is supported.
func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewStatusPending, InterviewStatusInProgress,
		InterviewStatusCompleted, InterviewStatusFailed:
		return true
	default:
		return false
	}
}

// InterviewSession is a scheduled or running interview as served by the core API.
type InterviewSession struct {
	ID          string          `json:"id"`
	JobID       string          `json:"job_id"`
	JobTitle    string          `json:"job_title,omitempty"`
	CandidateID string          `json:"candidate_id,omitempty"`
	CompanyID   string          `json:"company_id,omitempty"`
	Status      InterviewStatus `json:"status"`
	FinalScore  *float64        `json:"final_score,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	IsCreator   bool            `json:"is_creator"`
	IsCandidate bool            `json:"is_candidate"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InterviewPage is a paged interview listing.
type InterviewPage struct {
	Sessions   []InterviewSession `json:"sessions"`
	Pagination Pagination         `json:"pagination"`
}

// Pagination is the shared paging envelope of core API list answers.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// ScheduleInterviewInput pairs a job with a candidate resume.
type ScheduleInterviewInput struct {
	JobID    string `json:"job_id"`
	ResumeID string `json:"resume_id"`
}

// Validate checks the scheduling payload.
func (in *ScheduleInterviewInput) Validate() error {
	if strings.TrimSpace(in.JobID) == "" {
		return errors.New("job_id is required")
	}
	if strings.TrimSpace(in.ResumeID) == "" {
		return errors.New("resume_id is required")
	}
	return nil
}

// ScheduledInterview is the core API's answer to scheduling.
type ScheduledInterview struct {
	SessionID string `json:"session_id"`
}

// RoomToken grants entry to the live interview room for one session.
type RoomToken struct {
	Token     string    `json:"token"`
	RoomName  string    `json:"room_name"`
	ServerURL string    `json:"server_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}
