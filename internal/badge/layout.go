package badge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"streakBadgeAPI/internal/stats"
)

var ErrUnknownLayout = errors.New("unknown layout")

// Field is one labelled line of a badge.
type Field struct {
	Label string
	Value func(*stats.Snapshot) string
}

// Layout selects which snapshot fields a badge surfaces, in display order.
type Layout struct {
	Name   string
	Fields []Field
}

var (
	currentStreakField = Field{Label: "Current Streak", Value: func(s *stats.Snapshot) string {
		return plural(s.CurrentStreak, "day")
	}}
	maxStreakField = Field{Label: "Best Streak", Value: func(s *stats.Snapshot) string {
		return fmt.Sprintf("%s in %d", plural(s.MaxStreakInYear, "day"), s.Year)
	}}
	totalField = Field{Label: "Total Contributions", Value: func(s *stats.Snapshot) string {
		return strconv.Itoa(s.TotalContributions)
	}}
	weeklyField = Field{Label: "Weekly Average", Value: func(s *stats.Snapshot) string {
		return strconv.FormatFloat(s.AverageWeeklyInYear, 'f', 1, 64)
	}}
	consistencyField = Field{Label: "Consistency (90d)", Value: func(s *stats.Snapshot) string {
		return strconv.Itoa(s.Consistency90) + "%"
	}}
	peakDayField = Field{Label: "Most Productive Day", Value: func(s *stats.Snapshot) string {
		if s.MostProductiveDay == nil {
			return "none"
		}
		return fmt.Sprintf("%s (%d)", s.MostProductiveDay.Date, s.MostProductiveDay.Count)
	}}
	bestMonthField = Field{Label: "Highest Month", Value: func(s *stats.Snapshot) string {
		if s.HighestCommittedMonth == nil {
			return "none"
		}
		return fmt.Sprintf("%s (%d)", s.HighestCommittedMonth.Label, s.HighestCommittedMonth.Count)
	}}
)

var layouts = map[string]Layout{
	"streak": {Name: "streak", Fields: []Field{currentStreakField, maxStreakField, totalField}},
	"stats":  {Name: "stats", Fields: []Field{weeklyField, consistencyField, peakDayField, bestMonthField}},
	"full": {Name: "full", Fields: []Field{
		currentStreakField, maxStreakField, totalField,
		weeklyField, consistencyField, peakDayField, bestMonthField,
	}},
}

var layoutOrder = []string{"streak", "stats", "full"}

// LookupLayout resolves a layout by name, "streak" when empty.
func LookupLayout(name string) (Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "streak"
	}
	l, ok := layouts[name]
	if !ok {
		return Layout{}, ErrUnknownLayout
	}
	return l, nil
}

func LayoutNames() []string {
	return append([]string(nil), layoutOrder...)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
