package core

import (
	"fmt"
	"math"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Insight thresholds.
const (
	trendDeltaMinutes   = 12.0
	baselineDays        = 14
	mixedWindowMinutes  = 60.0
	highRiskRatio       = 0.80
	mediumRiskRatio     = 0.95
	highRiskMinutes     = 75.0
	mediumRiskMinutes   = 110.0
	highIdleMinutes     = 120.0
	mediumIdleMinutes   = 80.0
	highErrorFixMinutes = 90.0
	medErrorFixMinutes  = 45.0
	highIntervalRel     = 0.25
	mediumIntervalRel   = 0.45
	defaultErrorDensity = 5.0
)

// ForecastTrend compares the last prediction with the first.
func ForecastTrend(points []schema.ForecastPoint) schema.Trend {
	if len(points) == 0 {
		return schema.TrendStable
	}
	delta := float64(points[len(points)-1].PredictedMinutes - points[0].PredictedMinutes)
	switch {
	case delta >= trendDeltaMinutes:
		return schema.TrendImproving
	case delta <= -trendDeltaMinutes:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

// IntervalConfidence rates the mean band width relative to the mean prediction.
func IntervalConfidence(points []schema.ForecastPoint) schema.ConfidenceLevel {
	if len(points) == 0 {
		return schema.ConfidenceMedium
	}
	var width float64
	for _, p := range points {
		width += math.Max(0, p.UpperBound-p.LowerBound)
	}
	width /= float64(len(points))

	rel := width / math.Max(1, meanPrediction(points))
	switch {
	case rel < highIntervalRel:
		return schema.ConfidenceHigh
	case rel < mediumIntervalRel:
		return schema.ConfidenceMedium
	default:
		return schema.ConfidenceLow
	}
}

// BestFocusWindow compares day and night focus over the last 14 measured days.
func BestFocusWindow(history []schema.DailyRecord) schema.BestWindow {
	recent := lastN(measuredOnly(history), baselineDays)
	var day, night float64
	for _, r := range recent {
		day += r.DayFocusMinutes
		night += r.NightFocusMinutes
	}
	switch {
	case math.Abs(day-night) < mixedWindowMinutes:
		return schema.MixedWindow
	case day > night:
		return schema.DayWindow
	default:
		return schema.NightWindow
	}
}

// RecommendBestHours picks a part of the day from the mean predicted error density.
func RecommendBestHours(days []DayOutlook) schema.BestHours {
	density := defaultErrorDensity
	if len(days) > 0 {
		var sum float64
		for _, d := range days {
			sum += d.ErrorDensity
		}
		density = sum / float64(len(days))
	}

	switch {
	case density < 3:
		return schema.BestHours{
			RecommendedTime: "morning",
			Hours:           "8AM - 12PM",
			Reason:          "Low error rate indicates good focus in typical morning hours",
		}
	case density < 6:
		return schema.BestHours{
			RecommendedTime: "afternoon",
			Hours:           "1PM - 5PM",
			Reason:          "Moderate error rate, afternoon work recommended",
		}
	default:
		return schema.BestHours{
			RecommendedTime: "flexible",
			Hours:           "Adjust based on your energy",
			Reason:          "Higher predicted error rate - take breaks and work when most alert",
		}
	}
}

// ComputeInsights reads a forecast against the user's recent measured history.
func ComputeInsights(points []schema.ForecastPoint, history []schema.DailyRecord) schema.ForecastInsights {
	measured := measuredOnly(history)
	recent := lastN(measured, baselineDays)

	var baseline float64
	for _, r := range recent {
		baseline += r.FocusMinutes
	}
	if len(recent) > 0 {
		baseline /= float64(len(recent))
	}
	avgPred := meanPrediction(points)

	risk := schema.RiskLow
	if baseline > 0 {
		ratio := avgPred / baseline
		switch {
		case ratio < highRiskRatio:
			risk = schema.RiskHigh
		case ratio < mediumRiskRatio:
			risk = schema.RiskMedium
		}
	} else {
		switch {
		case avgPred < highRiskMinutes:
			risk = schema.RiskHigh
		case avgPred < mediumRiskMinutes:
			risk = schema.RiskMedium
		}
	}

	var idle, errorFix float64
	if len(measured) > 0 {
		latest := measured[len(measured)-1]
		idle, errorFix = latest.IdleMinutes, latest.ErrorFixMinutes
	}
	switch {
	case idle >= highIdleMinutes:
		risk = risk.AtLeast(schema.RiskHigh)
	case idle >= mediumIdleMinutes:
		risk = risk.AtLeast(schema.RiskMedium)
	}
	switch {
	case errorFix >= highErrorFixMinutes:
		risk = risk.AtLeast(schema.RiskHigh)
	case errorFix >= medErrorFixMinutes:
		risk = risk.AtLeast(schema.RiskMedium)
	}

	insights := schema.ForecastInsights{
		Trend:                 ForecastTrend(points),
		RiskLevel:             risk,
		IntervalConfidence:    IntervalConfidence(points),
		BestWindow:            BestFocusWindow(history),
		RecentAvgFocus:        math.Round(baseline),
		PredictedAvg:          math.Round(avgPred),
		LatestIdleMinutes:     math.Round(idle),
		LatestErrorFixMinutes: math.Round(errorFix),
	}
	insights.Summary = insightSummary(len(points), insights)
	return insights
}

func insightSummary(days int, in schema.ForecastInsights) string {
	direction := "about the same"
	switch in.Trend {
	case schema.TrendImproving:
		direction = "slightly higher"
	case schema.TrendDeclining:
		direction = "slightly lower"
	}
	window := "both day and night"
	switch in.BestWindow {
	case schema.DayWindow:
		window = "day-time"
	case schema.NightWindow:
		window = "night-time"
	}
	return fmt.Sprintf("Next %d days look %s than your recent pattern. Best focus window is %s. Confidence is %s.",
		days, direction, window, in.IntervalConfidence)
}

func meanPrediction(points []schema.ForecastPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += float64(p.PredictedMinutes)
	}
	return sum / float64(len(points))
}

func lastN(records []schema.DailyRecord, n int) []schema.DailyRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
