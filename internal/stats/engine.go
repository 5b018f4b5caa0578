// Package stats derives streak, consistency and aggregation metrics from a
// contribution calendar. Every function is pure and safe for concurrent use.
package stats

import (
	"fmt"
	"math"
	"time"

	"streakBadgeAPI/internal/types/calendar"
)

const ConsistencyWindow = 90

// CurrentStreak counts consecutive active days walking back from the last
// entry. A zero-count entry for today is skipped: the day is not over yet.
func CurrentStreak(cal calendar.Calendar, today time.Time) int {
	i := len(cal) - 1
	if i < 0 {
		return 0
	}
	if cal[i].Count == 0 && cal[i].SameDay(today) {
		i--
	}

	streak := 0
	for ; i >= 0 && cal[i].Count > 0; i-- {
		streak++
	}
	return streak
}

// MaxStreakInYear returns the longest run of active days dated in year.
func MaxStreakInYear(cal calendar.Calendar, year int) int {
	best, run := 0, 0
	for _, day := range cal {
		if day.Date.Year() != year {
			continue
		}
		if day.Count == 0 {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// MostProductiveDay returns the first day holding the greatest count. The
// boolean is false only for an empty calendar.
func MostProductiveDay(cal calendar.Calendar) (PeakDay, bool) {
	if len(cal) == 0 {
		return PeakDay{}, false
	}
	peak := cal[0]
	for _, day := range cal[1:] {
		if day.Count > peak.Count {
			peak = day
		}
	}
	return PeakDay{Date: peak.Key(), Count: peak.Count}, true
}

// AverageWeeklyInYear is sum(counts) / ceil(days/7) over the days of year,
// rounded half-up to one decimal.
func AverageWeeklyInYear(cal calendar.Calendar, year int) float64 {
	sum, days := 0, 0
	for _, day := range cal {
		if day.Date.Year() != year {
			continue
		}
		sum += day.Count
		days++
	}
	if days == 0 {
		return 0
	}

	weeks := (days + 6) / 7
	if weeks < 1 {
		weeks = 1
	}
	return roundTenths(float64(sum) / float64(weeks))
}

// Consistency90 is the rounded percentage of active days among the last
// ConsistencyWindow entries.
func Consistency90(cal calendar.Calendar) int {
	window := cal
	if len(window) > ConsistencyWindow {
		window = window[len(window)-ConsistencyWindow:]
	}
	n := len(window)
	if n == 0 {
		return 0
	}

	active := 0
	for _, day := range window {
		if day.Count > 0 {
			active++
		}
	}
	// round half-up in integers: (100*active + n/2) / n
	return (200*active + n) / (2 * n)
}

// HighestCommittedMonth sums counts per calendar month and returns the
// largest bucket. Ties go to the earliest month.
func HighestCommittedMonth(cal calendar.Calendar) (MonthTotal, bool) {
	if len(cal) == 0 {
		return MonthTotal{}, false
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	var order []monthKey
	sums := make(map[monthKey]int)
	for _, day := range cal {
		k := monthKey{day.Date.Year(), day.Date.Month()}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += day.Count
	}

	best := order[0]
	for _, k := range order[1:] {
		if sums[k] > sums[best] || (sums[k] == sums[best] && earlier(k.year, k.month, best.year, best.month)) {
			best = k
		}
	}

	return MonthTotal{
		Label: fmt.Sprintf("%s %d", best.month.String()[:3], best.year),
		Year:  best.year,
		Month: int(best.month),
		Count: sums[best],
	}, true
}

// Compute validates the calendar and derives the full snapshot. The year
// metrics use the year of today.
func Compute(contrib *calendar.Contributions, today time.Time) (*Snapshot, error) {
	if contrib == nil {
		return nil, fmt.Errorf("%w: nil contributions", calendar.ErrInvalidInput)
	}
	cal := contrib.Days
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if contrib.TotalContributions < 0 {
		return nil, fmt.Errorf("%w: negative total %d", calendar.ErrInvalidInput, contrib.TotalContributions)
	}

	year := today.Year()
	snap := &Snapshot{
		Username:            contrib.Username,
		CurrentStreak:       CurrentStreak(cal, today),
		MaxStreakInYear:     MaxStreakInYear(cal, year),
		AverageWeeklyInYear: AverageWeeklyInYear(cal, year),
		Consistency90:       Consistency90(cal),
		TotalContributions:  contrib.TotalContributions,
		ActiveDays:          activeDays(cal),
		Year:                year,
		GeneratedAt:         today.Format(calendar.DateLayout),
	}
	if peak, ok := MostProductiveDay(cal); ok {
		snap.MostProductiveDay = &peak
	}
	if month, ok := HighestCommittedMonth(cal); ok {
		snap.HighestCommittedMonth = &month
	}
	return snap, nil
}

func activeDays(cal calendar.Calendar) int {
	n := 0
	for _, day := range cal {
		if day.Count > 0 {
			n++
		}
	}
	return n
}

func earlier(y1 int, m1 time.Month, y2 int, m2 time.Month) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}

func roundTenths(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
