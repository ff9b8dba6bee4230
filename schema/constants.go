package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history and forecast storage.
	DatabaseBackend string

	// FeatureSetVersion identifies a closed, versioned set of model features.
	FeatureSetVersion string

	// ConfidenceLevel is the coarse label of a ConfidenceScore.
	ConfidenceLevel string

	// ProductivityLevel is the coarse label of a day's predicted output quality.
	ProductivityLevel string

	// PatternType classifies when a user usually works.
	PatternType string

	// TaskType is a task archetype that can be assigned to an hour of the day.
	TaskType string

	// SlotQuality labels an hour by its productivity score.
	SlotQuality string

	// Severity ranks warnings.
	Severity string

	// WarningType names the condition that triggered a warning.
	WarningType string

	// Trend describes the direction of a forecast.
	Trend string

	// RiskLevel describes how far a forecast sits below the recent baseline.
	RiskLevel string

	// BestWindow is the part of the day where most focus happens.
	BestWindow string

	// Period is the span of a budget plan.
	Period string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Feature set versions.
const (
	FullFeatureSet   FeatureSetVersion = "full" // default
	LegacyFeatureSet FeatureSetVersion = "legacy"
)

// Confidence levels, lowest first.
const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceFair   ConfidenceLevel = "fair"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Productivity levels.
const (
	ProductivityHigh   ProductivityLevel = "high"
	ProductivityMedium ProductivityLevel = "medium"
	ProductivityLow    ProductivityLevel = "low"
)

// Work pattern types.
const (
	EarlyBird PatternType = "early_bird"
	NightOwl  PatternType = "night_owl"
	Standard  PatternType = "standard"
)

// Task archetypes, in descending order of required focus.
const (
	DeepWorkTask      TaskType = "deep_work"
	CodeReviewTask    TaskType = "code_review"
	DebuggingTask     TaskType = "debugging"
	DocumentationTask TaskType = "documentation"
	PlanningTask      TaskType = "planning_meetings"
)

// Hour slot qualities.
const (
	PeakSlot     SlotQuality = "peak"
	HighSlot     SlotQuality = "high"
	ModerateSlot SlotQuality = "moderate"
	LowSlot      SlotQuality = "low"
)

// Warning severities.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Warning types.
const (
	InfeasibleWarning WarningType = "infeasible"
	FocusRiskWarning  WarningType = "focus_risk"
	LowFocusWarning   WarningType = "low_focus"
	HighErrorsWarning WarningType = "high_errors"
)

// Forecast trends.
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Best focus windows.
const (
	DayWindow   BestWindow = "day"
	NightWindow BestWindow = "night"
	MixedWindow BestWindow = "mixed"
)

// Budget periods.
const (
	DayPeriod  Period = "day"
	WeekPeriod Period = "week"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidFeatureSets lists all valid feature set versions.
var ValidFeatureSets = map[FeatureSetVersion]struct{}{
	FullFeatureSet:   {},
	LegacyFeatureSet: {},
}

// ValidPeriods lists all valid budget periods.
var ValidPeriods = map[Period]struct{}{
	DayPeriod:  {},
	WeekPeriod: {},
}

// severityRank orders severities for sorting, highest first.
var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// Rank returns the sort position of a severity (0 is most severe).
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// riskRank orders risk levels from lowest to highest.
var riskRank = map[RiskLevel]int{
	RiskLow:    1,
	RiskMedium: 2,
	RiskHigh:   3,
}

// AtLeast returns the higher of r and floor.
func (r RiskLevel) AtLeast(floor RiskLevel) RiskLevel {
	if riskRank[floor] > riskRank[r] {
		return floor
	}
	return r
}
