package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Budget constants.
const (
	budgetMaxHoursPerDay = 6
	budgetChunkMinutes   = 30
)

// PeriodHorizon returns the forecast horizon of a budget period.
func PeriodHorizon(period schema.Period) (int, error) {
	switch period {
	case schema.DayPeriod:
		return 1, nil
	case schema.WeekPeriod:
		return 7, nil
	default:
		return 0, newError(KindInvalidRange, "period must be day or week (received %q)", period)
	}
}

// bufferFor returns the share of capacity kept as safety for an interval confidence.
func bufferFor(c schema.ConfidenceLevel) float64 {
	switch c {
	case schema.ConfidenceHigh:
		return 0.05
	case schema.ConfidenceMedium:
		return 0.10
	default:
		return 0.15
	}
}

// BuildBudget spreads targetHours over saved forecast points with a confidence buffer
// and a six hour daily cap.
func BuildBudget(period schema.Period, targetHours float64, points []schema.ForecastPoint, window schema.BestWindow) (schema.BudgetPlan, error) {
	horizon, err := PeriodHorizon(period)
	if err != nil {
		return schema.BudgetPlan{}, err
	}
	if targetHours <= 0 || math.IsNaN(targetHours) || math.IsInf(targetHours, 0) {
		return schema.BudgetPlan{}, newError(KindInvalidRange, "target hours must be a positive number")
	}
	if len(points) == 0 {
		return schema.BudgetPlan{}, newError(KindInsufficientHistory, "no forecast to budget against")
	}

	confidence := IntervalConfidence(points)
	buffer := bufferFor(confidence)

	capacity := make([]int, len(points))
	var totalCap int
	for i, p := range points {
		capacity[i] = max(0, int(math.Floor(float64(p.PredictedMinutes)*(1-buffer))))
		totalCap += capacity[i]
	}

	targetMinutes := int(math.Round(targetHours * 60))
	maxPossible := min(totalCap, horizon*budgetMaxHoursPerDay*60)
	feasible := targetMinutes <= maxPossible
	suggested := schema.RoundHalf(float64(maxPossible) / 60)

	plan := schema.BudgetPlan{
		Period:               period,
		HorizonDays:          horizon,
		TargetHours:          schema.RoundHalf(targetHours),
		Feasible:             feasible,
		SuggestedTargetHours: suggested,
		BestWindow:           window,
		Confidence:           confidence,
		BufferPercent:        int(math.Round(buffer * 100)),
		CapacityHours:        schema.RoundHalf(float64(totalCap) / 60),
	}

	want := min(targetMinutes, maxPossible)
	if period == schema.DayPeriod {
		plan.Days = []schema.BudgetDay{{
			Date:   points[0].Date,
			Hours:  schema.RoundHalf(float64(want) / 60),
			Window: window,
		}}
	} else {
		plan.Days, plan.UnallocatedMinutes = allocateBudget(points, capacity, want, window)
	}

	if feasible {
		plan.Reason = fmt.Sprintf("Your forecast capacity for this %s is about %g hours (with a safety buffer because confidence is %s).",
			period, plan.CapacityHours, confidence)
	} else {
		plan.Reason = fmt.Sprintf("Your target is higher than your forecast capacity for this %s. With a safety buffer (confidence: %s), a realistic target is about %g hours.",
			period, confidence, suggested)
	}
	return plan, nil
}

// allocateBudget splits targetMinutes proportionally to capacity, caps each day, then
// tops up in 30 minute chunks starting with the highest capacity day.
func allocateBudget(points []schema.ForecastPoint, capacity []int, targetMinutes int, window schema.BestWindow) ([]schema.BudgetDay, int) {
	maxPerDay := budgetMaxHoursPerDay * 60
	days := make([]schema.BudgetDay, len(points))

	var totalCap int
	for _, c := range capacity {
		totalCap += c
	}
	if totalCap <= 0 {
		for i, p := range points {
			days[i] = schema.BudgetDay{Date: p.Date, Window: window}
		}
		return days, targetMinutes
	}

	alloc := make([]int, len(capacity))
	allocated := 0
	for i, c := range capacity {
		share := int(math.Round(float64(c) / float64(totalCap) * float64(targetMinutes)))
		alloc[i] = min(max(share, 0), maxPerDay)
		allocated += alloc[i]
	}
	remaining := targetMinutes - allocated

	order := make([]int, len(capacity))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return capacity[order[a]] > capacity[order[b]]
	})

	for remaining > 0 {
		progressed := false
		for _, i := range order {
			room := maxPerDay - alloc[i]
			if room <= 0 {
				continue
			}
			add := min(room, remaining, budgetChunkMinutes)
			alloc[i] += add
			remaining -= add
			progressed = true
			if remaining <= 0 {
				break
			}
		}
		if !progressed {
			break
		}
	}

	for i, p := range points {
		days[i] = schema.BudgetDay{
			Date:   p.Date,
			Hours:  schema.RoundHalf(float64(alloc[i]) / 60),
			Window: window,
		}
	}
	return days, max(remaining, 0)
}
