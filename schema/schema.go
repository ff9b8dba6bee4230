// Package schema has the data model shared by every part of busybee.
package schema

import "time"

// DailyRecord is one day of aggregated focus telemetry for a user.
// Records returned by a history source are measured; records appended by the
// rolling forecaster are carried and must never be written back as history.
type DailyRecord struct {
	Date                  time.Time `json:"date"`
	FocusMinutes          float64   `json:"focus_minutes"`
	IdleMinutes           float64   `json:"idle_minutes"`
	IdleSessions          float64   `json:"idle_sessions"`
	AvgIdleSessionMinutes float64   `json:"avg_idle_session_minutes"`
	ErrorCount            float64   `json:"error_count"`
	ErrorFixMinutes       float64   `json:"error_fix_minutes"`
	DayFocusMinutes       float64   `json:"day_focus_minutes"`
	NightFocusMinutes     float64   `json:"night_focus_minutes"`
	FileSwitchRate        float64   `json:"file_switch_rate"` // switches per minute
	ErrorDensity          float64   `json:"error_density"`    // diagnostics per KLOC
	Carried               bool      `json:"carried"`
}

// FocusSession is a single uninterrupted focus streak.
type FocusSession struct {
	Start           time.Time `json:"start"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// End returns the time the session finished.
func (s FocusSession) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes * float64(time.Minute)))
}

// ForecastPoint is the predicted focus for one future day.
type ForecastPoint struct {
	Date             time.Time `json:"date"`
	PredictedMinutes int       `json:"predicted_minutes"`
	LowerBound       float64   `json:"lower_bound"`
	UpperBound       float64   `json:"upper_bound"`
	Fallback         bool      `json:"fallback"` // produced by the recency-weighted estimator
}

// ModelMetadata describes a trained model as written next to its weights.
type ModelMetadata struct {
	ModelVersion      string             `json:"model_version"`
	ModelType         string             `json:"model_type"`
	Features          []string           `json:"features"`
	P90AbsResidual    float64            `json:"p90_abs_residual"`
	MAETest           float64            `json:"mae_test"`
	TrainRows         int                `json:"train_rows"`
	TestRows          int                `json:"test_rows"`
	CutoffDate        string             `json:"cutoff_date,omitempty"`
	BaseScore         *float64           `json:"base_score,omitempty"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
}

// ForecastInsights is the human-oriented reading of a forecast.
type ForecastInsights struct {
	Trend                 Trend           `json:"trend"`
	RiskLevel             RiskLevel       `json:"risk_level"`
	IntervalConfidence    ConfidenceLevel `json:"interval_confidence"`
	BestWindow            BestWindow      `json:"best_window"`
	RecentAvgFocus        float64         `json:"recent_avg_focus"`
	PredictedAvg          float64         `json:"predicted_avg"`
	LatestIdleMinutes     float64         `json:"latest_idle_minutes"`
	LatestErrorFixMinutes float64         `json:"latest_error_fix_minutes"`
	Summary               string          `json:"summary"`
}

// ForecastResult is the response of a forecast request.
type ForecastResult struct {
	UserID       string            `json:"user_id"`
	ModelVersion string            `json:"model_version"`
	FeatureSet   FeatureSetVersion `json:"feature_set"`
	HorizonDays  int               `json:"horizon_days"`
	Baseline     bool              `json:"baseline"` // history too short for the model, every point is a fallback
	Points       []ForecastPoint   `json:"points"`
	Insights     *ForecastInsights `json:"insights,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// FeatureImpact is the importance of one model feature, optionally applied to a value.
type FeatureImpact struct {
	Feature    string   `json:"feature"`
	Importance float64  `json:"importance"`
	Value      *float64 `json:"value,omitempty"`
	Impact     float64  `json:"impact"`
}

// Explanation is the feature-importance reading of the model for a user.
type Explanation struct {
	UserID           string          `json:"user_id"`
	ModelVersion     string          `json:"model_version"`
	AsOf             time.Time       `json:"as_of"`
	GlobalImportance []FeatureImpact `json:"global_importance"`
	LocalImpacts     []FeatureImpact `json:"local_impacts"`
}
