package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakBadgeAPI/internal/badge"
	"streakBadgeAPI/internal/types/calendar"
	"streakBadgeAPI/services"
)

type stubFetcher struct {
	contrib *calendar.Contributions
	err     error
}

func (s stubFetcher) FetchCalendar(ctx context.Context, username string) (*calendar.Contributions, error) {
	return s.contrib, s.err
}

var fixedNow = time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

// recentActivity is five active days ending yesterday plus an idle today.
func recentActivity() *calendar.Contributions {
	today := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, time.UTC)
	var days calendar.Calendar
	for i := 5; i >= 1; i-- {
		days = append(days, calendar.ActivityDay{Date: today.AddDate(0, 0, -i), Count: 2})
	}
	days = append(days, calendar.ActivityDay{Date: today, Count: 0})
	return &calendar.Contributions{Username: "octocat", TotalContributions: 10, Days: days}
}

func newTestHandler(f stubFetcher) *BadgeHandler {
	clock := services.WithClock(func() time.Time { return fixedNow })
	return NewBadgeHandler(services.NewBadgeService(f, time.UTC, clock), time.Hour)
}

func TestGetBadge_Success(t *testing.T) {
	h := newTestHandler(stubFetcher{contrib: recentActivity()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/badge?user=octocat&theme=dark", nil)
	rr := httptest.NewRecorder()
	h.GetBadge(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, badge.ContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600, stale-while-revalidate=3600", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), "<svg")
	assert.Contains(t, rr.Body.String(), "5 days")
	assert.Contains(t, rr.Body.String(), "#151515")
}

func TestGetBadge_MissingUser(t *testing.T) {
	h := newTestHandler(stubFetcher{contrib: recentActivity()})

	for _, target := range []string{"/api/v1/badge", "/api/v1/badge?user=", "/api/v1/badge?user=%20%20"} {
		rr := httptest.NewRecorder()
		h.GetBadge(rr, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rr.Body.String(), "user")
	}
}

func TestGetBadge_UnknownTheme(t *testing.T) {
	h := newTestHandler(stubFetcher{contrib: recentActivity()})

	rr := httptest.NewRecorder()
	h.GetBadge(rr, httptest.NewRequest(http.MethodGet, "/api/v1/badge?user=octocat&theme=neon", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown theme")
}

func TestGetBadge_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		text string
	}{
		{"not found", services.ErrUserNotFound, http.StatusNotFound, "Could not find"},
		{"upstream", services.ErrUpstreamFailure, http.StatusBadGateway, "try again later"},
		{"invalid data", calendar.ErrInvalidInput, http.StatusInternalServerError, "could not be read"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "unexpected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(stubFetcher{err: tc.err})

			rr := httptest.NewRecorder()
			h.GetBadge(rr, httptest.NewRequest(http.MethodGet, "/api/v1/badge?user=ghost", nil))

			assert.Equal(t, tc.code, rr.Code)
			assert.Equal(t, badge.ContentType, rr.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
			assert.Contains(t, rr.Body.String(), "<svg")
			assert.Contains(t, rr.Body.String(), tc.text)
		})
	}
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(stubFetcher{contrib: recentActivity()})

	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats?user=OCTOCAT", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Username string `json:"username"`
		Stats    struct {
			CurrentStreak      int `json:"current_streak"`
			Consistency90      int `json:"consistency_90"`
			TotalContributions int `json:"total_contributions"`
			MostProductiveDay  *struct {
				Count int `json:"count"`
			} `json:"most_productive_day"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	assert.Equal(t, "octocat", body.Username)
	assert.Equal(t, 5, body.Stats.CurrentStreak)
	assert.Equal(t, 83, body.Stats.Consistency90)
	assert.Equal(t, 10, body.Stats.TotalContributions)
	require.NotNil(t, body.Stats.MostProductiveDay)
	assert.Equal(t, 2, body.Stats.MostProductiveDay.Count)
}

func TestGetStats_Errors(t *testing.T) {
	h := newTestHandler(stubFetcher{err: services.ErrUserNotFound})

	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats?user=ghost", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "ghost")
}

func TestGetThemes(t *testing.T) {
	h := newTestHandler(stubFetcher{})

	rr := httptest.NewRecorder()
	h.GetThemes(rr, httptest.NewRequest(http.MethodGet, "/api/v1/themes", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["themes"], "default")
	assert.Equal(t, []string{"streak", "stats", "full"}, body["layouts"])
}

func TestCacheControlDisabled(t *testing.T) {
	h := NewBadgeHandler(nil, 0)
	assert.Equal(t, "no-cache", h.cacheControl())
}
