package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeWindow(t *testing.T) {
	tests := []struct {
		start, end int
		want       string
		period     string
	}{
		{8, 10, "8-10am", "morning"},
		{11, 12, "11am-12pm", "morning"},
		{13, 15, "1-3pm", "afternoon"},
		{12, 13, "12-1pm", "afternoon"},
		{20, 22, "8-10pm", "evening/night"},
		{16, 18, "4-6pm", "evening/night"},
		{10, 14, "10am-2pm", "day"},
		{0, 1, "12-1am", "morning"},
	}

	for _, tt := range tests {
		got, period := FormatTimeWindow(tt.start, tt.end)
		assert.Equal(t, tt.want, got, "window %d-%d", tt.start, tt.end)
		assert.Equal(t, tt.period, period, "period %d-%d", tt.start, tt.end)
	}
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "12am", FormatHour(0))
	assert.Equal(t, "9am", FormatHour(9))
	assert.Equal(t, "12pm", FormatHour(12))
	assert.Equal(t, "11pm", FormatHour(23))
	assert.Equal(t, "12am", FormatHour(24))
}

func TestWeekdayIndex(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(monday))
	assert.Equal(t, 5, WeekdayIndex(monday.AddDate(0, 0, 5)))
	assert.Equal(t, 6, WeekdayIndex(monday.AddDate(0, 0, 6)))
}

func TestParseDateAndDaysBetween(t *testing.T) {
	a, err := ParseDate("2026-10-01")
	require.NoError(t, err)
	b, err := ParseDate(" 2026-10-08 ")
	require.NoError(t, err)
	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, -7, DaysBetween(b, a))
	assert.Equal(t, "2026-10-08", FormatDate(b))

	_, err = ParseDate("10/08/2026")
	assert.Error(t, err)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 2.5, RoundHalf(2.3))
	assert.Equal(t, 2.0, RoundHalf(2.2))
	assert.Equal(t, 3.0, RoundHalf(2.75))
	assert.Equal(t, 1.2, Round1(1.24))
	assert.Equal(t, 1.25, Round2(1.2491))
}

func TestRiskLevelAtLeast(t *testing.T) {
	assert.Equal(t, RiskHigh, RiskLow.AtLeast(RiskHigh))
	assert.Equal(t, RiskHigh, RiskHigh.AtLeast(RiskMedium))
	assert.Equal(t, RiskMedium, RiskLow.AtLeast(RiskMedium))
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityLow.Rank())
}
