package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", " ghp_test ")
	for _, key := range []string{"PORT", "GITHUB_GRAPHQL_URL", "UPSTREAM_TIMEOUT", "CACHE_TTL", "CACHE_SIZE",
		"BADGE_TIMEZONE", "BADGE_MAX_AGE", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_PRETTY", "WARM_USERS", "WARM_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, DefaultGraphQLURL, cfg.GitHubGraphQLURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, time.Hour, cfg.BadgeMaxAge)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Empty(t, cfg.WarmUsers)
	assert.Equal(t, 10*time.Minute, cfg.WarmInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("PORT", "8080")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("BADGE_TIMEZONE", "Asia/Tokyo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("WARM_USERS", "octocat, torvalds")
	t.Setenv("WARM_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"octocat", "torvalds"}, cfg.WarmUsers)
	assert.Equal(t, 90*time.Second, cfg.WarmInterval)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("BADGE_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BADGE_TIMEZONE", "UTC")
	t.Setenv("CACHE_SIZE", "0")
	_, err = Load()
	assert.Error(t, err)
}
