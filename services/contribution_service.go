package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"streakBadgeAPI/internal/types/calendar"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUpstreamFailure = errors.New("upstream failure")
)

const contributionsQuery = `
query($login: String!) {
  user(login: $login) {
    login
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

const maxResponseBytes = 4 << 20

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

type ContributionConfig struct {
	Token     string
	Endpoint  string
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// ContributionService reads public contribution calendars from the GitHub
// GraphQL API. Results are cached per login and concurrent misses for the
// same login share one upstream call.
type ContributionService struct {
	cfg    ContributionConfig
	client *http.Client
	cache  *expirable.LRU[string, *calendar.Contributions]
	group  singleflight.Group
}

func NewContributionService(cfg ContributionConfig, client *http.Client) *ContributionService {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 1
	}
	return &ContributionService{
		cfg:    cfg,
		client: client,
		cache:  expirable.NewLRU[string, *calendar.Contributions](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

// FetchCalendar returns the contribution calendar for username. Unknown
// accounts yield ErrUserNotFound; transport and API failures ErrUpstreamFailure.
func (s *ContributionService) FetchCalendar(ctx context.Context, username string) (*calendar.Contributions, error) {
	login, key, err := normalizeLogin(username)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(key); ok {
		calendarCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	calendarCacheLookups.WithLabelValues("miss").Inc()

	return s.load(ctx, login, key)
}

// Refresh fetches username from upstream regardless of the cache and stores
// the result, so the next FetchCalendar is served fresh.
func (s *ContributionService) Refresh(ctx context.Context, username string) (*calendar.Contributions, error) {
	login, key, err := normalizeLogin(username)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, login, key)
}

func (s *ContributionService) load(ctx context.Context, login, key string) (*calendar.Contributions, error) {
	// The shared call must outlive any single caller that gives up early.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		contrib, err := s.fetch(fetchCtx, login)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, contrib)
		return contrib, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, ctx.Err())
	case res := <-ch:
		if res.Shared {
			zerolog.Ctx(ctx).Debug().Str("login", login).Msg("shared in-flight calendar fetch")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*calendar.Contributions), nil
	}
}

func normalizeLogin(username string) (login, key string, err error) {
	login = strings.TrimSpace(username)
	if len(login) == 0 || len(login) > 39 || !loginPattern.MatchString(login) {
		return "", "", fmt.Errorf("%w: %q is not a valid login", ErrUserNotFound, username)
	}
	return login, strings.ToLower(login), nil
}

// CachedUsers reports how many calendars are currently cached.
func (s *ContributionService) CachedUsers() int {
	return s.cache.Len()
}

func (s *ContributionService) fetch(ctx context.Context, login string) (*calendar.Contributions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	logger := zerolog.Ctx(ctx).With().Str("login", login).Logger()
	start := time.Now()

	body, err := s.post(ctx, login)
	upstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Msg("contribution calendar request failed")
		return nil, err
	}

	contrib, err := parseContributions(login, body)
	switch {
	case errors.Is(err, ErrUserNotFound):
		upstreamRequestsTotal.WithLabelValues("not_found").Inc()
	case errors.Is(err, calendar.ErrInvalidInput):
		upstreamRequestsTotal.WithLabelValues("invalid").Inc()
		logger.Error().Err(err).Msg("malformed contribution calendar")
	case err != nil:
		upstreamRequestsTotal.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Msg("contribution calendar response rejected")
	default:
		upstreamRequestsTotal.WithLabelValues("ok").Inc()
		logger.Debug().
			Int("days", len(contrib.Days)).
			Dur("took", time.Since(start)).
			Msg("fetched contribution calendar")
	}
	return contrib, err
}

func (s *ContributionService) post(ctx context.Context, login string) ([]byte, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     contributionsQuery,
		"variables": map[string]string{"login": login},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Authorization", "bearer "+s.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "streak-badge-api")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstreamFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github responded %d", ErrUpstreamFailure, resp.StatusCode)
	}
	return body, nil
}

func (s *ContributionService) timeout() time.Duration {
	if s.cfg.Timeout <= 0 {
		return 10 * time.Second
	}
	return s.cfg.Timeout
}

func parseContributions(login string, body []byte) (*calendar.Contributions, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrUpstreamFailure)
	}
	res := gjson.ParseBytes(body)

	user := res.Get("data.user")
	for _, e := range res.Get("errors").Array() {
		if e.Get("type").String() == "NOT_FOUND" {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
		}
	}
	if errs := res.Get("errors").Array(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamFailure, errs[0].Get("message").String())
	}
	if !user.Exists() || user.Type == gjson.Null {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, login)
	}

	cal := user.Get("contributionsCollection.contributionCalendar")
	total := cal.Get("totalContributions")
	if !isCount(total) {
		return nil, fmt.Errorf("%w: totalContributions %q", calendar.ErrInvalidInput, total.Raw)
	}

	contrib := &calendar.Contributions{
		Username:           user.Get("login").String(),
		TotalContributions: int(total.Int()),
	}
	if contrib.Username == "" {
		contrib.Username = login
	}

	for _, week := range cal.Get("weeks").Array() {
		for _, d := range week.Get("contributionDays").Array() {
			count := d.Get("contributionCount")
			if !isCount(count) {
				return nil, fmt.Errorf("%w: contributionCount %q on %s", calendar.ErrInvalidInput, count.Raw, d.Get("date").String())
			}
			day, err := calendar.ParseDay(d.Get("date").String(), int(count.Int()))
			if err != nil {
				return nil, err
			}
			contrib.Days = append(contrib.Days, day)
		}
	}
	return contrib, nil
}

// isCount accepts non-negative whole JSON numbers only.
func isCount(r gjson.Result) bool {
	return r.Type == gjson.Number && r.Num >= 0 && r.Num == math.Trunc(r.Num)
}
