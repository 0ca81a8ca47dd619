package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func eventsJSON() string {
	recent := testNow.Add(-24 * time.Hour).Format(time.RFC3339)
	old := testNow.Add(-8 * 24 * time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`[
  {"type": "PushEvent", "created_at": %q, "payload": {"size": 3, "commits": [{"sha": "a"}, {"sha": "b"}, {"sha": "c"}]}},
  {"type": "PushEvent", "created_at": %q, "payload": {"commits": []}},
  {"type": "PullRequestEvent", "created_at": %q, "payload": {"action": "opened"}},
  {"type": "IssuesEvent", "created_at": %q, "payload": {"action": "closed"}},
  {"type": "PullRequestReviewEvent", "created_at": %q, "payload": {}},
  {"type": "PullRequestReviewEvent", "created_at": %q, "payload": {}},
  {"type": "WatchEvent", "created_at": %q, "payload": {}},
  {"type": "PushEvent", "created_at": %q, "payload": {"commits": [{"sha": "old"}]}},
  {"type": "IssuesEvent", "created_at": %q, "payload": {}}
]`, recent, recent, recent, recent, recent, recent, recent, old, old)
}

func TestFetchWeeklyStats(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(eventsJSON()))
	}))
	defer srv.Close()

	c := NewClient("octocat", "tok123").WithBaseURL(srv.URL)
	res := c.FetchWeeklyStats(context.Background(), testNow)

	require.NoError(t, res.Err)
	require.True(t, res.Available())
	require.Equal(t, "/users/octocat/events", gotPath)
	require.Equal(t, "per_page=100", gotQuery)
	require.Equal(t, "token tok123", gotAuth)
	require.Equal(t, WeeklyStats{Commits: 3, PullRequests: 1, Issues: 1, Reviews: 2}, res.Stats)
	require.Equal(t, testNow.Add(-7*24*time.Hour), res.Since)
}

func TestFetchWeeklyStats_Unauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res := NewClient("octocat", "").WithBaseURL(srv.URL).FetchWeeklyStats(context.Background(), testNow)
	require.NoError(t, res.Err)
	require.Empty(t, gotAuth)
	require.Equal(t, WeeklyStats{}, res.Stats)
}

func TestFetchWeeklyStats_FallsBackToZero(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  map[string]string
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "rate limited 403", status: http.StatusForbidden, header: map[string]string{"X-RateLimit-Remaining": "0"}, wantErr: ErrRateLimited},
		{name: "rate limited 429", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "bad json", status: http.StatusOK, body: `{"message": "not a list"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := NewClient("octocat", "tok").WithBaseURL(srv.URL).FetchWeeklyStats(context.Background(), testNow)
			require.Error(t, res.Err)
			require.False(t, res.Available())
			require.Equal(t, WeeklyStats{}, res.Stats)
			if tt.wantErr != nil {
				require.ErrorIs(t, res.Err, tt.wantErr)
			}
		})
	}
}

func TestFetchWeeklyStats_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := NewClient("octocat", "").WithBaseURL(url).FetchWeeklyStats(context.Background(), testNow)
	require.Error(t, res.Err)
	require.Equal(t, WeeklyStats{}, res.Stats)
}

func TestFetchWeeklyStats_NilClient(t *testing.T) {
	var c *Client
	res := c.FetchWeeklyStats(context.Background(), testNow)
	require.True(t, errors.Is(res.Err, ErrNoUsername))
	require.Equal(t, WeeklyStats{}, res.Stats)
}

func TestNewClient_EmptyUsername(t *testing.T) {
	require.Nil(t, NewClient("  ", "tok"))
}

func TestCountWeekly_Boundary(t *testing.T) {
	since := testNow.Add(-weekWindow)
	events := []Event{
		{Type: eventPullRequest, CreatedAt: since},
		{Type: eventPullRequest, CreatedAt: since.Add(-time.Second)},
		{Type: eventPush, CreatedAt: since, Payload: []byte(`not json`)},
	}
	require.Equal(t, WeeklyStats{PullRequests: 1}, CountWeekly(events, since))
}
