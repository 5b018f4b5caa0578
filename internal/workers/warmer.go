package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"streakBadgeAPI/internal/types/calendar"
)

// Refresher re-fetches one calendar and replaces its cached copy.
type Refresher interface {
	Refresh(ctx context.Context, username string) (*calendar.Contributions, error)
}

// StartCacheWarmer refreshes users once right away and then on every tick
// until ctx is done. It does nothing without users or a positive interval.
func StartCacheWarmer(ctx context.Context, r Refresher, users []string, interval time.Duration) {
	if len(users) == 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		warmCalendars(ctx, r, users)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				warmCalendars(ctx, r, users)
			}
		}
	}()
}

func warmCalendars(ctx context.Context, r Refresher, users []string) {
	start := time.Now()
	failed := 0

	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.Refresh(ctx, user); err != nil {
			failed++
			log.Warn().Err(err).Str("user", user).Msg("Failed to warm calendar")
		}
	}

	log.Debug().
		Int("users", len(users)).
		Int("failed", failed).
		Dur("took", time.Since(start)).
		Msg("Calendar cache warmed")
}
