package schema

import "time"

// ForecastRecord represents a row from the busybee_forecasts table.
type ForecastRecord struct {
	UserID           string
	TargetDate       time.Time
	ModelVersion     string
	HorizonDays      int
	PredictedMinutes int
	LowerBound       float64
	UpperBound       float64
	Fallback         bool
	CreatedAt        time.Time
}

// Point converts the stored row back into a forecast point.
func (r ForecastRecord) Point() ForecastPoint {
	return ForecastPoint{
		Date:             r.TargetDate,
		PredictedMinutes: r.PredictedMinutes,
		LowerBound:       r.LowerBound,
		UpperBound:       r.UpperBound,
		Fallback:         r.Fallback,
	}
}

// PlanRecord represents a row from the busybee_plans table.
type PlanRecord struct {
	PlanID           string
	UserID           string
	StartDate        time.Time
	EndDate          time.Time
	TargetHours      float64
	IsFeasible       bool
	FeasibilityScore float64
	ModelVersion     string
	Payload          string // JSON encoded PlanSchedule
	CreatedAt        time.Time
}

// ModelRecord represents a row from the busybee_model_registry table.
type ModelRecord struct {
	ModelVersion   string
	ModelType      string
	FeatureCount   int
	P90AbsResidual float64
	MAETest        float64
	TrainRows      int
	TestRows       int
	CutoffDate     string
	RegisteredAt   time.Time
}
