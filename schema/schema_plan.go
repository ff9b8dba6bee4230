package schema

import "time"

// WorkProfile summarizes how much and when a user historically works.
type WorkProfile struct {
	AvgWorkdayMinutes float64     `json:"avg_workday_minutes"`
	AvgDailyHours     float64     `json:"avg_daily_hours"`
	MaxDailyHours     float64     `json:"max_daily_hours"`
	BestWeekHours     float64     `json:"best_week_hours"`
	StddevHours       float64     `json:"stddev_hours"`
	TypicalStartHour  int         `json:"typical_start_hour"`
	TypicalEndHour    int         `json:"typical_end_hour"`
	PatternType       PatternType `json:"pattern_type"`
	DaysAnalyzed      int         `json:"days_analyzed"`
	Defaulted         bool        `json:"defaulted"`
}

// DefaultWorkdayMinutes is used when no profile provides a workday length.
const DefaultWorkdayMinutes = 480

// DefaultWorkProfile is the profile used when the profile source fails.
func DefaultWorkProfile() WorkProfile {
	return WorkProfile{
		AvgWorkdayMinutes: DefaultWorkdayMinutes,
		TypicalStartHour:  9,
		TypicalEndHour:    17,
		PatternType:       Standard,
		Defaulted:         true,
	}
}

// ConfidenceFactors are the inputs of a ConfidenceScore.
type ConfidenceFactors struct {
	DataQuantity     float64 `json:"data_quantity"`
	PatternStability float64 `json:"pattern_stability"`
	DataRecency      float64 `json:"data_recency"`
}

// ConfidenceScore rates how reliable a forecast is.
type ConfidenceScore struct {
	Overall float64           `json:"overall"`
	Level   ConfidenceLevel   `json:"level"`
	Factors ConfidenceFactors `json:"factors"`
}

// HourSlot is one hour of a day assigned to a task archetype.
type HourSlot struct {
	Hour          int         `json:"hour"`
	TimeRange     string      `json:"time_range"`
	Period        string      `json:"period"`
	Task          TaskType    `json:"task"`
	Score         float64     `json:"score"`
	Quality       SlotQuality `json:"quality"`
	DurationHours float64     `json:"duration_hours"`
}

// DayAllocation is the hours planned for a single day.
type DayAllocation struct {
	Date                  time.Time         `json:"date"`
	PredictedFocusMinutes int               `json:"predicted_focus_minutes"`
	AllocatedHours        float64           `json:"allocated_hours"`
	AvailableHours        float64           `json:"available_hours"`
	ProductivityLevel     ProductivityLevel `json:"productivity_level"`
	Note                  string            `json:"note,omitempty"`
	UnscheduledHours      float64           `json:"unscheduled_hours,omitempty"`
	HourlySchedule        []HourSlot        `json:"hourly_schedule"`
}

// Warning is a single advisory raised over a plan.
type Warning struct {
	Type     WarningType `json:"type"`
	Severity Severity    `json:"severity"`
	Date     *time.Time  `json:"date,omitempty"`
	Message  string      `json:"message"`
}

// StretchGoal reframes a target above predicted capacity.
type StretchGoal struct {
	AchievableHours float64         `json:"achievable_hours"`
	HistoricalPeak  float64         `json:"historical_peak"`
	Confidence      ConfidenceLevel `json:"confidence"`
	Message         string          `json:"message"`
}

// TargetSuggestion nudges a target well below predicted capacity upward.
type TargetSuggestion struct {
	SuggestedHours float64 `json:"suggested_hours"`
	HistoricalAvg  float64 `json:"historical_avg"`
	Message        string  `json:"message"`
}

// BestHours is the recommended part of the day for focused work.
type BestHours struct {
	RecommendedTime string `json:"recommended_time"`
	Hours           string `json:"hours"`
	Reason          string `json:"reason"`
}

// PlanSchedule is a complete plan for a date range. It is never mutated after construction.
type PlanSchedule struct {
	PlanID               string            `json:"plan_id"`
	UserID               string            `json:"user_id"`
	Start                time.Time         `json:"start"`
	End                  time.Time         `json:"end"`
	TargetHours          float64           `json:"target_hours"`
	EffectiveTargetHours float64           `json:"effective_target_hours"`
	IsFeasible           bool              `json:"is_feasible"`
	FeasibilityScore     float64           `json:"feasibility_score"`
	TotalAvailableHours  float64           `json:"total_available_hours"`
	Stretch              *StretchGoal      `json:"stretch,omitempty"`
	Suggestion           *TargetSuggestion `json:"suggestion,omitempty"`
	Days                 []DayAllocation   `json:"days"`
	SkippedDates         []time.Time       `json:"skipped_dates,omitempty"`
	BestHours            BestHours         `json:"best_hours"`
	Confidence           ConfidenceScore   `json:"confidence"`
	Warnings             []Warning         `json:"warnings"`
	LowConfidence        bool              `json:"low_confidence"`
	WorkProfile          WorkProfile       `json:"work_profile"`
	ModelVersion         string            `json:"model_version"`
	GeneratedAt          time.Time         `json:"generated_at"`
}

// BudgetDay is the hours budgeted for a single day.
type BudgetDay struct {
	Date   time.Time  `json:"date"`
	Hours  float64    `json:"hours"`
	Window BestWindow `json:"window"`
}

// BudgetPlan spreads a target over the saved forecast with a confidence buffer.
type BudgetPlan struct {
	UserID               string          `json:"user_id"`
	Period               Period          `json:"period"`
	HorizonDays          int             `json:"horizon_days"`
	TargetHours          float64         `json:"target_hours"`
	Feasible             bool            `json:"feasible"`
	SuggestedTargetHours float64         `json:"suggested_target_hours"`
	BestWindow           BestWindow      `json:"best_window"`
	Confidence           ConfidenceLevel `json:"confidence"`
	BufferPercent        int             `json:"buffer_percent"`
	CapacityHours        float64         `json:"capacity_hours"`
	Days                 []BudgetDay     `json:"days"`
	UnallocatedMinutes   int             `json:"unallocated_minutes"`
	Reason               string          `json:"reason"`
	ModelVersion         string          `json:"model_version"`
}
