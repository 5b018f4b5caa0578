package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakBadgeAPI/internal/testutil"
)

func setupUpstream(t *testing.T) {
	t.Helper()

	start := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	upstream := testutil.NewGraphQLServer(t, func(login string) testutil.Response {
		if login == "octocat" {
			return testutil.Response{Body: testutil.ContributionsPayload("octocat", 9, testutil.Days(start, 2, 3, 4))}
		}
		return testutil.Response{Body: testutil.NotFoundPayload(login)}
	})

	t.Setenv("GITHUB_TOKEN", "cli-token")
	t.Setenv("GITHUB_GRAPHQL_URL", upstream.URL)
	t.Setenv("BADGE_TIMEZONE", "UTC")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsTable(t *testing.T) {
	setupUpstream(t)

	out, err := run(t, "stats", "octocat")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Streak")
	assert.Contains(t, out, "3 days")
	assert.Contains(t, out, "Consistency")
}

func TestStatsJSON(t *testing.T) {
	setupUpstream(t)

	out, err := run(t, "stats", "octocat", "--json")
	require.NoError(t, err)

	var snap struct {
		CurrentStreak      int `json:"current_streak"`
		TotalContributions int `json:"total_contributions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 3, snap.CurrentStreak)
	assert.Equal(t, 9, snap.TotalContributions)
}

func TestStatsUnknownUser(t *testing.T) {
	setupUpstream(t)

	_, err := run(t, "stats", "ghost")
	assert.Error(t, err)
}

func TestRenderToFile(t *testing.T) {
	setupUpstream(t)
	path := filepath.Join(t.TempDir(), "badge.svg")

	_, err := run(t, "render", "octocat", "-o", path, "--theme", "dark", "--layout", "full")
	require.NoError(t, err)

	svg, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "#151515")
}

func TestRenderStdoutAndBadTheme(t *testing.T) {
	setupUpstream(t)

	out, err := run(t, "render", "octocat")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")

	_, err = run(t, "render", "octocat", "--theme", "neon")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestMissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	_, err := run(t, "stats", "octocat")
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}
