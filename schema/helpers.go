package schema

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on every surface.
const DateLayout = "2006-01-02"

// Day truncates a time to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// WeekdayIndex returns the day of week with Monday as 0 and Sunday as 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// RoundHalf rounds to the nearest half.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatHour formats an hour of day as "12am", "9am", "12pm" or "5pm".
func FormatHour(h int) string {
	h = ((h % 24) + 24) % 24
	switch {
	case h == 0:
		return "12am"
	case h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}

// FormatTimeWindow formats an hour range like "8-10am" and labels its part of the day.
// The suffix is shared when both ends fall on the same side of noon.
func FormatTimeWindow(start, end int) (string, string) {
	var period string
	switch {
	case start < 12 && end <= 12:
		period = "morning"
	case start >= 12 && end <= 17:
		period = "afternoon"
	case start >= 17 || end >= 17:
		period = "evening/night"
	default:
		period = "day"
	}

	from, to := FormatHour(start), FormatHour(end)
	if len(from) > 2 && len(to) > 2 && from[len(from)-2:] == to[len(to)-2:] {
		from = from[:len(from)-2]
	}
	return from + "-" + to, period
}
