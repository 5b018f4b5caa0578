package stats

// PeakDay is the single day with the highest count.
type PeakDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MonthTotal is the summed count of one calendar month.
type MonthTotal struct {
	Label string `json:"label"` // "Jan 2024"
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// Snapshot holds every metric derived from one calendar. A nil
// MostProductiveDay or HighestCommittedMonth means the calendar was empty.
type Snapshot struct {
	Username              string      `json:"username"`
	CurrentStreak         int         `json:"current_streak"`
	MaxStreakInYear       int         `json:"max_streak_in_year"`
	MostProductiveDay     *PeakDay    `json:"most_productive_day"`
	AverageWeeklyInYear   float64     `json:"average_weekly_in_year"`
	Consistency90         int         `json:"consistency_90"`
	HighestCommittedMonth *MonthTotal `json:"highest_committed_month"`
	TotalContributions    int         `json:"total_contributions"`
	ActiveDays            int         `json:"active_days"`
	Year                  int         `json:"year"`
	GeneratedAt           string      `json:"generated_at"`
}
