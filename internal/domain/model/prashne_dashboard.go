package model

import "time"

// DashboardStats is the counters block on the HR dashboard.
type DashboardStats struct {
	TotalParsed      int `json:"total_parsed"`
	TotalCandidates  int `json:"total_candidates"`
	ActiveJobs       int `json:"active_jobs"`
	PendingReviews   int `json:"pending_reviews"`
	TodayInterviews  int `json:"today_interviews"`
	MatchesThisMonth int `json:"matches_this_month"`
}

// ActivityKind tags a recent-activity entry.
type ActivityKind string

const (
	ActivityUpload    ActivityKind = "upload"
	ActivityReview    ActivityKind = "review"
	ActivityMatch     ActivityKind = "match"
	ActivityInterview ActivityKind = "interview"
)

// Activity is one row of the recent-activity feed.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityKind `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// DashboardOverview bundles the widgets the dashboard page renders on
// first load, so the browser needs a single round trip.
type DashboardOverview struct {
	Stats       DashboardStats     `json:"stats"`
	Activities  []Activity         `json:"activities"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardEntry is one ranked row of the team leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Count  int    `json:"count"`
	Rank   int    `json:"rank"`
}
