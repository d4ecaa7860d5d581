package leaderboard

import (
	"fmt"
	"strings"
	"time"
)

const PeriodLayout = "2006-01-02"

// Entry is one ranked row of a room leaderboard for a calendar day.
type Entry struct {
	RoomID string
	UserID string
	Period time.Time
	Points int
	Rank   int
}

// PeriodOf truncates t to its UTC calendar date.
func PeriodOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatPeriod(period time.Time) string {
	return PeriodOf(period).Format(PeriodLayout)
}

func ParsePeriod(raw string) (time.Time, error) {
	value, err := time.Parse(PeriodLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse period %q: %w", raw, err)
	}
	return PeriodOf(value), nil
}
