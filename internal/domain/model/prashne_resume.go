package model

import "time"

// ResumeStatus is the parsing state of an uploaded resume.
type ResumeStatus string

const (
	ResumeStatusPending   ResumeStatus = "pending"
	ResumeStatusProcessed ResumeStatus = "processed"
	ResumeStatusFailed    ResumeStatus = "failed"
)

// Valid reports whether the resume status is supported.
func (s ResumeStatus) Valid() bool {
	switch s {
	case ResumeStatusPending, ResumeStatusProcessed, ResumeStatusFailed:
		return true
	default:
		return false
	}
}

// Resume is a parsed candidate resume as served by the core API.
type Resume struct {
	ID              string       `json:"id"`
	CandidateName   string       `json:"candidate_name"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	ExperienceYears float64      `json:"experience_years,omitempty"`
	Summary         string       `json:"summary,omitempty"`
	Status          ResumeStatus `json:"status"`
	UploadedBy      string       `json:"uploaded_by,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ResumeStats is the aggregate counters shown on the HR dashboards.
type ResumeStats struct {
	TotalParsed     int `json:"total_parsed"`
	TotalCandidates int `json:"total_candidates"`
	Pending         int `json:"pending"`
	Failed          int `json:"failed"`
}

// UploadReceipt is the core API's answer to a resume upload.
type UploadReceipt struct {
	Uploaded int      `json:"uploaded"`
	Failed   int      `json:"failed"`
	IDs      []string `json:"ids,omitempty"`
}
