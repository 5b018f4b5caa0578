// Package config centralises environment configuration for the badge API.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const DefaultGraphQLURL = "https://api.github.com/graphql"

type Config struct {
	Port             string
	GitHubToken      string
	GitHubGraphQLURL string
	UpstreamTimeout  time.Duration
	CacheTTL         time.Duration
	CacheSize        int
	Timezone         *time.Location
	BadgeMaxAge      time.Duration
	AllowedOrigins   []string
	MetricsUser      string
	MetricsPass      string
	LogLevel         string
	LogPretty        bool
	WarmUsers        []string
	WarmInterval     time.Duration
}

// Load reads the environment into Config. The GitHub token is the only
// required value.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "3333"),
		GitHubToken:      strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubGraphQLURL: getEnv("GITHUB_GRAPHQL_URL", DefaultGraphQLURL),
		UpstreamTimeout:  getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		CacheTTL:         getDurationEnv("CACHE_TTL", 15*time.Minute),
		CacheSize:        getIntEnv("CACHE_SIZE", 512),
		BadgeMaxAge:      getDurationEnv("BADGE_MAX_AGE", time.Hour),
		AllowedOrigins:   splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MetricsUser:      os.Getenv("METRICS_USER"),
		MetricsPass:      os.Getenv("METRICS_PASS"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getBoolEnv("LOG_PRETTY", false),
		WarmUsers:        splitAndTrim(os.Getenv("WARM_USERS")),
		WarmInterval:     getDurationEnv("WARM_INTERVAL", 10*time.Minute),
	}

	if cfg.GitHubToken == "" {
		return cfg, errors.New("GITHUB_TOKEN environment variable is not set")
	}

	zone := getEnv("BADGE_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return cfg, fmt.Errorf("invalid BADGE_TIMEZONE %q: %w", zone, err)
	}
	cfg.Timezone = loc

	if cfg.CacheSize < 1 {
		return cfg, fmt.Errorf("CACHE_SIZE must be positive, got %d", cfg.CacheSize)
	}
	return cfg, nil
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
