// Package testutil builds fake GitHub GraphQL responses for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// Day is one fixture entry, date in YYYY-MM-DD.
type Day struct {
	Date  string
	Count int
}

// Days builds consecutive fixture days starting at start.
func Days(start string, counts ...int) []Day {
	first, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad start date %q", start))
	}
	out := make([]Day, len(counts))
	for i, c := range counts {
		out[i] = Day{Date: first.AddDate(0, 0, i).Format("2006-01-02"), Count: c}
	}
	return out
}

// ContributionsPayload renders a successful contributionCalendar response,
// grouping days into weeks of seven the way GitHub does.
func ContributionsPayload(login string, total int, days []Day) []byte {
	var weeks []string
	for i := 0; i < len(days); i += 7 {
		end := i + 7
		if end > len(days) {
			end = len(days)
		}
		var entries []string
		for _, d := range days[i:end] {
			entries = append(entries, fmt.Sprintf(`{"date":%q,"contributionCount":%d}`, d.Date, d.Count))
		}
		weeks = append(weeks, fmt.Sprintf(`{"contributionDays":[%s]}`, strings.Join(entries, ",")))
	}

	return []byte(fmt.Sprintf(`{
		"data": {
			"user": {
				"login": %q,
				"contributionsCollection": {
					"contributionCalendar": {
						"totalContributions": %d,
						"weeks": [%s]
					}
				}
			}
		}
	}`, login, total, strings.Join(weeks, ",")))
}

// NotFoundPayload mirrors GitHub's answer for an unknown login.
func NotFoundPayload(login string) []byte {
	return []byte(fmt.Sprintf(`{
		"data": {"user": null},
		"errors": [{
			"type": "NOT_FOUND",
			"path": ["user"],
			"message": "Could not resolve to a User with the login of '%s'."
		}]
	}`, login))
}

// Response is what a fake upstream returns for one login.
type Response struct {
	Status int
	Body   []byte
	Delay  time.Duration
}

// GraphQLServer is a fake GitHub GraphQL endpoint.
type GraphQLServer struct {
	*httptest.Server
	calls     atomic.Int32
	LastToken atomic.Value
}

// Calls reports how many requests reached the server.
func (s *GraphQLServer) Calls() int {
	return int(s.calls.Load())
}

// NewGraphQLServer answers each request with respond(login). The server is
// closed when the test ends.
func NewGraphQLServer(t *testing.T, respond func(login string) Response) *GraphQLServer {
	t.Helper()

	srv := &GraphQLServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.calls.Add(1)
		srv.LastToken.Store(r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Variables struct {
				Login string `json:"login"`
			} `json:"variables"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		resp := respond(req.Variables.Login)
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		w.Write(resp.Body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
