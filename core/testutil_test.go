package core

import (
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// day0 is a Monday.
var day0 = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

// makeHistory builds n measured days ending the day before day0.
func makeHistory(n int, focus func(i int) float64) []schema.DailyRecord {
	records := make([]schema.DailyRecord, n)
	for i := range n {
		records[i] = schema.DailyRecord{
			Date:                  day0.AddDate(0, 0, i-n),
			FocusMinutes:          focus(i),
			IdleMinutes:           30,
			IdleSessions:          3,
			AvgIdleSessionMinutes: 10,
			ErrorCount:            4,
			ErrorFixMinutes:       20,
			DayFocusMinutes:       focus(i) * 0.6,
			NightFocusMinutes:     focus(i) * 0.4,
			FileSwitchRate:        1.2,
			ErrorDensity:          2.5,
		}
	}
	return records
}

func constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

func fromSlice(values []float64) func(int) float64 {
	return func(i int) float64 { return values[i] }
}

// weightedMean is the recency-weighted mean of the last seven values.
func weightedMean(values []float64) float64 {
	start := max(0, len(values)-7)
	var num, den float64
	for i, v := range values[start:] {
		num += float64(i+1) * v
		den += float64(i + 1)
	}
	return num / den
}
