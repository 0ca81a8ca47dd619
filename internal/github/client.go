// Package github fetches a user's recent public activity from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	eventsPerPage  = 100
	weekWindow     = 7 * 24 * time.Hour
)

var (
	// ErrUnauthorized indicates the token is missing a scope, expired or invalid.
	ErrUnauthorized = errors.New("github: unauthorized")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("github: rate limited")
	// ErrNoUsername indicates no GitHub user was configured.
	ErrNoUsername = errors.New("github: no username configured")
)

// Client fetches public events for a single user.
type Client struct {
	username string
	token    string
	baseURL  string
	http     *http.Client
}

// NewClient creates a client for username. token may be empty, in which
// case requests are unauthenticated. Returns nil if username is empty.
func NewClient(username, token string) *Client {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	return &Client{
		username: username,
		token:    strings.TrimSpace(token),
		baseURL:  DefaultBaseURL,
		http:     &http.Client{},
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise host or a test server.
func (c *Client) WithBaseURL(base string) *Client {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
	return c
}

// FetchWeeklyStats counts the user's commits, pull requests, issues and
// reviews from events created within the seven days before now. Failures
// never propagate: the result carries zero counts and the cause in Err.
func (c *Client) FetchWeeklyStats(ctx context.Context, now time.Time) WeeklyResult {
	result := WeeklyResult{Since: now.Add(-weekWindow), FetchedAt: now}

	if c == nil {
		result.Err = ErrNoUsername
		return result
	}

	events, err := c.FetchEvents(ctx)
	if err != nil {
		// Remote unavailable: fall back to zero counts.
		result.Err = err
		return result
	}

	result.Stats = CountWeekly(events, result.Since)
	return result
}

// FetchEvents returns the most recent page of the user's public events.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	path := fmt.Sprintf("/users/%s/events?per_page=%d", url.PathEscape(c.username), eventsPerPage)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("github: parsing events: %w", err)
	}
	return events, nil
}

// CountWeekly tallies events created at or after since.
func CountWeekly(events []Event, since time.Time) WeeklyStats {
	var s WeeklyStats
	for _, ev := range events {
		if ev.CreatedAt.Before(since) {
			continue
		}
		switch ev.Type {
		case eventPush:
			s.Commits += pushCommits(ev.Payload)
		case eventPullRequest:
			s.PullRequests++
		case eventIssues:
			s.Issues++
		case eventPullReqReview:
			s.Reviews++
		}
	}
	return s
}

// pushCommits counts the commits listed in a PushEvent payload.
func pushCommits(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var p pushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0
	}
	return len(p.Commits)
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/zone5/1.0")

	resp, err := c.http.Do(req) //nolint:gosec // URL is built from the configured API root
	if err != nil {
		return nil, fmt.Errorf("github: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return nil, ErrRateLimited
		}
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("github: reading response: %w", err)
	}
	return body, nil
}
