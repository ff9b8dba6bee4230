package core

import (
	"fmt"
	"math"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Capacity constants.
const (
	maxDailyAvailableHours = 10.0
	stretchCeiling         = 1.2
	stretchFloor           = 1.05
	conservativeRatio      = 0.7
	suggestCapacityShare   = 0.9
	suggestAvgUplift       = 1.1
)

// Day notes.
const (
	NoteMaxCapacity = "Maximum capacity"
	NoteStretch     = "Stretch day"
	NoteNoHistory   = "No work history"
	NoteOverflow    = "Exceeds work window"
)

// DayOutlook is the predicted shape of one planned day: the forecast focus plus
// behavior carried from the last measured day.
type DayOutlook struct {
	Date             time.Time
	PredictedMinutes int
	FocusMinutes     float64
	IdleMinutes      float64
	FileSwitchRate   float64
	ErrorDensity     float64
}

// OutlookFromForecast pairs forecast points with the last measured day.
func OutlookFromForecast(points []schema.ForecastPoint, last schema.DailyRecord) []DayOutlook {
	days := make([]DayOutlook, len(points))
	for i, p := range points {
		days[i] = DayOutlook{
			Date:             p.Date,
			PredictedMinutes: p.PredictedMinutes,
			FocusMinutes:     float64(p.PredictedMinutes),
			IdleMinutes:      last.IdleMinutes,
			FileSwitchRate:   last.FileSwitchRate,
			ErrorDensity:     last.ErrorDensity,
		}
	}
	return days
}

// CapacityPlan is the output of PlanCapacity.
type CapacityPlan struct {
	Feasible             bool
	FeasibilityScore     float64
	TotalAvailableHours  float64
	EffectiveTargetHours float64
	Stretch              *schema.StretchGoal
	Suggestion           *schema.TargetSuggestion
	Days                 []schema.DayAllocation
	MaxEffort            bool
	LowConfidence        bool
}

// AvailableHours estimates the productive hours of a day.
func AvailableHours(day DayOutlook, workdayMinutes float64) float64 {
	if workdayMinutes <= 0 {
		workdayMinutes = schema.DefaultWorkdayMinutes
	}
	available := (workdayMinutes - day.IdleMinutes) / 60 * (day.FocusMinutes / 60)
	return math.Max(0, math.Min(available, maxDailyAvailableHours))
}

// ClassifyProductivity labels a day from its focus and context switching.
func ClassifyProductivity(focus, switchRate float64) schema.ProductivityLevel {
	switch {
	case focus > 50 && switchRate < 1.5:
		return schema.ProductivityHigh
	case focus > 30 && switchRate < 2.0:
		return schema.ProductivityMedium
	default:
		return schema.ProductivityLow
	}
}

// FeasibilityScore is total over target as a percentage, capped at 100.
func FeasibilityScore(totalAvailable, targetHours float64) float64 {
	if targetHours <= 0 {
		return 100
	}
	return math.Min(totalAvailable/targetHours*100, 100)
}

// PlanCapacity turns day outlooks and a work profile into allocations for targetHours.
func PlanCapacity(days []DayOutlook, profile schema.WorkProfile, targetHours float64) CapacityPlan {
	if !profile.Defaulted && profile.DaysAnalyzed == 0 {
		return emptyCapacity(days, targetHours)
	}

	available := make([]float64, len(days))
	var total float64
	for i, d := range days {
		available[i] = AvailableHours(d, profile.AvgWorkdayMinutes)
		total += available[i]
	}

	plan := CapacityPlan{
		Feasible:             targetHours <= 0 || total >= targetHours,
		FeasibilityScore:     schema.Round1(FeasibilityScore(total, targetHours)),
		TotalAvailableHours:  schema.Round1(total),
		EffectiveTargetHours: math.Max(0, targetHours),
	}

	n := float64(len(days))
	peak, avg := total, total
	if !profile.Defaulted {
		peak = historicalPeak(profile, n)
		avg = profile.AvgDailyHours * n
	}

	if targetHours > total {
		stretch := math.Max(math.Min(peak, total*stretchCeiling), total*stretchFloor)
		label := schema.ConfidenceLow
		switch {
		case targetHours <= stretch:
			label = schema.ConfidenceHigh
		case targetHours <= peak:
			label = schema.ConfidenceMedium
		}
		plan.Stretch = &schema.StretchGoal{
			AchievableHours: schema.Round1(stretch),
			HistoricalPeak:  schema.Round1(peak),
			Confidence:      label,
			Message:         stretchMessage(targetHours, stretch, label),
		}
		plan.EffectiveTargetHours = math.Min(targetHours, stretch)
		plan.MaxEffort = label != schema.ConfidenceHigh
	}

	if targetHours > 0 && targetHours < conservativeRatio*total {
		suggested := math.Min(total*suggestCapacityShare, avg*suggestAvgUplift)
		if suggested > targetHours {
			plan.Suggestion = &schema.TargetSuggestion{
				SuggestedHours: schema.Round1(suggested),
				HistoricalAvg:  schema.Round1(avg),
				Message: fmt.Sprintf("Your target of %.1fh uses under %.0f%% of predicted capacity; %.1fh is within reach",
					targetHours, conservativeRatio*100, suggested),
			}
		}
	}

	plan.Days = make([]schema.DayAllocation, len(days))
	for i, d := range days {
		var allocated float64
		if total > 0 {
			allocated = math.Min(available[i], available[i]/total*plan.EffectiveTargetHours)
		}
		alloc := schema.DayAllocation{
			Date:                  d.Date,
			PredictedFocusMinutes: d.PredictedMinutes,
			AllocatedHours:        schema.Round1(allocated),
			AvailableHours:        schema.Round1(available[i]),
			ProductivityLevel:     ClassifyProductivity(d.FocusMinutes, d.FileSwitchRate),
		}
		if !plan.Feasible {
			alloc.Note = NoteStretch
			if plan.MaxEffort {
				alloc.AllocatedHours = alloc.AvailableHours
				alloc.Note = NoteMaxCapacity
			}
		}
		plan.Days[i] = alloc
	}
	plan.EffectiveTargetHours = schema.Round1(plan.EffectiveTargetHours)
	return plan
}

// historicalPeak pro-rates the best historical week to n days. Profiles without
// a full week fall back to the best single day.
func historicalPeak(profile schema.WorkProfile, n float64) float64 {
	if profile.BestWeekHours > 0 {
		return profile.BestWeekHours * n / 7
	}
	return profile.MaxDailyHours * n
}

func joinNotes(note, extra string) string {
	if note == "" {
		return extra
	}
	return note + "; " + extra
}

// emptyCapacity is the plan for a user with no analyzed work days.
func emptyCapacity(days []DayOutlook, targetHours float64) CapacityPlan {
	plan := CapacityPlan{
		Feasible:         targetHours <= 0,
		FeasibilityScore: FeasibilityScore(0, targetHours),
		LowConfidence:    true,
		Days:             make([]schema.DayAllocation, len(days)),
	}
	for i, d := range days {
		plan.Days[i] = schema.DayAllocation{
			Date:                  d.Date,
			PredictedFocusMinutes: d.PredictedMinutes,
			ProductivityLevel:     ClassifyProductivity(d.FocusMinutes, d.FileSwitchRate),
			Note:                  NoteNoHistory,
		}
	}
	return plan
}

func stretchMessage(target, stretch float64, label schema.ConfidenceLevel) string {
	switch label {
	case schema.ConfidenceHigh:
		return fmt.Sprintf("%.1fh is a stretch but achievable with focused days", target)
	case schema.ConfidenceMedium:
		return fmt.Sprintf("%.1fh matches your historical peak; %.1fh is a realistic stretch", target, stretch)
	default:
		return fmt.Sprintf("%.1fh exceeds your historical peak; aim for %.1fh instead", target, stretch)
	}
}
