package github

import (
	"encoding/json"
	"time"
)

// Event types that contribute to the weekly counters.
const (
	eventPush          = "PushEvent"
	eventPullRequest   = "PullRequestEvent"
	eventIssues        = "IssuesEvent"
	eventPullReqReview = "PullRequestReviewEvent"
)

// Event is the subset of a GitHub public event zone5 reads.
type Event struct {
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// pushPayload is the payload of a PushEvent.
type pushPayload struct {
	Size    int               `json:"size"`
	Commits []json.RawMessage `json:"commits"`
}

// WeeklyStats holds the activity counters shown in the README.
type WeeklyStats struct {
	Commits      int `json:"commits" yaml:"commits"`
	PullRequests int `json:"pullRequests" yaml:"pullRequests"`
	Issues       int `json:"issues" yaml:"issues"`
	Reviews      int `json:"reviews" yaml:"reviews"`
}

// WeeklyResult is the outcome of a weekly fetch. When Err is non-nil the
// collaborator was unavailable and Stats holds zero counts.
type WeeklyResult struct {
	Stats     WeeklyStats
	Since     time.Time
	FetchedAt time.Time
	Err       error
}

// Available reports whether Stats came from the remote API.
func (r WeeklyResult) Available() bool {
	return r.Err == nil
}
