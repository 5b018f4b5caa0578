package services

import (
	"context"
	"fmt"
	"time"

	"streakBadgeAPI/internal/badge"
	"streakBadgeAPI/internal/stats"
	"streakBadgeAPI/internal/types/calendar"
)

// CalendarFetcher returns the contribution calendar of one account.
type CalendarFetcher interface {
	FetchCalendar(ctx context.Context, username string) (*calendar.Contributions, error)
}

type BadgeService struct {
	fetcher CalendarFetcher
	loc     *time.Location
	now     func() time.Time
}

type BadgeOption func(*BadgeService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) BadgeOption {
	return func(s *BadgeService) {
		s.now = now
	}
}

func NewBadgeService(fetcher CalendarFetcher, loc *time.Location, opts ...BadgeOption) *BadgeService {
	if loc == nil {
		loc = time.UTC
	}
	s := &BadgeService{fetcher: fetcher, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSnapshot fetches the calendar for username and derives its stats with
// today taken in the configured timezone.
func (s *BadgeService) GetSnapshot(ctx context.Context, username string) (*stats.Snapshot, error) {
	contrib, err := s.fetcher.FetchCalendar(ctx, username)
	if err != nil {
		return nil, err
	}

	snap, err := stats.Compute(contrib, s.now().In(s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for %s: %w", username, err)
	}
	return snap, nil
}

func (s *BadgeService) RenderBadge(ctx context.Context, username string, opts badge.Options) ([]byte, error) {
	snap, err := s.GetSnapshot(ctx, username)
	if err != nil {
		return nil, err
	}

	// GitHub's casing of the login, not whatever the caller typed.
	name := snap.Username
	if name == "" {
		name = username
	}
	svg, err := badge.Render(name, snap, opts)
	if err != nil {
		return nil, err
	}
	badgesRendered.WithLabelValues(opts.Theme.Name, opts.Layout.Name).Inc()
	return svg, nil
}
