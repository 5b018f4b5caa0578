package calendar

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ErrInvalidInput marks calendar data the stats engine cannot compute over.
var ErrInvalidInput = errors.New("invalid calendar input")

// ActivityDay is one entry of a contribution calendar. Date only carries a
// year/month/day, it is never converted across timezones.
type ActivityDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Calendar is ordered by date, ascending, with unique dates.
type Calendar []ActivityDay

type Contributions struct {
	Username           string   `json:"username"`
	TotalContributions int      `json:"total_contributions"`
	Days               Calendar `json:"days"`
}

// ParseDay builds an ActivityDay from a YYYY-MM-DD date.
func ParseDay(date string, count int) (ActivityDay, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ActivityDay{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}
	if count < 0 {
		return ActivityDay{}, fmt.Errorf("%w: negative count %d on %s", ErrInvalidInput, count, date)
	}
	return ActivityDay{Date: d, Count: count}, nil
}

func (d ActivityDay) Key() string {
	return d.Date.Format(DateLayout)
}

// SameDay compares the calendar day of t, read in its own location.
func (d ActivityDay) SameDay(t time.Time) bool {
	y1, m1, d1 := d.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Validate reports ordering, duplicate and negative count violations.
func (c Calendar) Validate() error {
	for i, day := range c {
		if day.Date.IsZero() {
			return fmt.Errorf("%w: missing date at index %d", ErrInvalidInput, i)
		}
		if day.Count < 0 {
			return fmt.Errorf("%w: negative count %d on %s", ErrInvalidInput, day.Count, day.Key())
		}
		if i == 0 {
			continue
		}
		prev := c[i-1]
		if prev.Key() >= day.Key() {
			return fmt.Errorf("%w: %s does not follow %s", ErrInvalidInput, day.Key(), prev.Key())
		}
	}
	return nil
}
