// Package parquet provides data structures and functions for exporting busybee
// forecasts, plans and models to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/parquet-go/parquet-go"
)

// Forecast represents one saved forecast point.
// This struct maps to the busybee_forecasts database table.
type Forecast struct {
	UserID string `parquet:"user_id,snappy"`

	// TargetDate is the forecast day as YYYY-MM-DD
	TargetDate string `parquet:"target_date,snappy"`

	ModelVersion     string  `parquet:"model_version,snappy"`
	HorizonDays      int32   `parquet:"horizon_days,snappy"`
	PredictedMinutes int32   `parquet:"predicted_minutes,snappy"`
	LowerBound       float64 `parquet:"lower_bound,snappy"`
	UpperBound       float64 `parquet:"upper_bound,snappy"`

	// Fallback is true when the recency-weighted estimator produced the point
	Fallback bool `parquet:"fallback,snappy"`

	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// Plan represents a saved capacity plan.
// This struct maps to the busybee_plans database table.
type Plan struct {
	PlanID           string    `parquet:"plan_id,snappy"`
	UserID           string    `parquet:"user_id,snappy"`
	StartDate        string    `parquet:"start_date,snappy"`
	EndDate          string    `parquet:"end_date,snappy"`
	TargetHours      float64   `parquet:"target_hours,snappy"`
	IsFeasible       bool      `parquet:"is_feasible,snappy"`
	FeasibilityScore float64   `parquet:"feasibility_score,snappy"`
	ModelVersion     string    `parquet:"model_version,snappy"`
	Payload          string    `parquet:"payload,snappy"` // JSON encoded plan
	CreatedAt        time.Time `parquet:"created_at,snappy"`
}

// Model represents a registered model.
// This struct maps to the busybee_model_registry database table.
type Model struct {
	ModelVersion   string  `parquet:"model_version,snappy"`
	ModelType      string  `parquet:"model_type,snappy"`
	FeatureCount   int32   `parquet:"feature_count,snappy"`
	P90AbsResidual float64 `parquet:"p90_abs_residual,snappy"`
	MAETest        float64 `parquet:"mae_test,snappy"`
	TrainRows      int32   `parquet:"train_rows,snappy"`
	TestRows       int32   `parquet:"test_rows,snappy"`

	// CutoffDate is the last training day (nullable)
	CutoffDate *string `parquet:"cutoff_date,optional,snappy"`

	RegisteredAt time.Time `parquet:"registered_at,snappy"`
}

// writeRows writes a slice of rows to a Parquet file whose schema is inferred from T.
func writeRows[T any](data []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteForecastsParquet writes a slice of Forecast structs to a Parquet file.
func WriteForecastsParquet(data []Forecast, outputPath string) error {
	return writeRows(data, outputPath)
}

// WritePlansParquet writes a slice of Plan structs to a Parquet file.
func WritePlansParquet(data []Plan, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteModelsParquet writes a slice of Model structs to a Parquet file.
func WriteModelsParquet(data []Model, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertForecastRecords converts stored forecast rows into Parquet rows.
func ConvertForecastRecords(records []schema.ForecastRecord) []Forecast {
	result := make([]Forecast, len(records))
	for i, r := range records {
		result[i] = Forecast{
			UserID:           r.UserID,
			TargetDate:       schema.FormatDate(r.TargetDate),
			ModelVersion:     r.ModelVersion,
			HorizonDays:      int32(r.HorizonDays),
			PredictedMinutes: int32(r.PredictedMinutes),
			LowerBound:       r.LowerBound,
			UpperBound:       r.UpperBound,
			Fallback:         r.Fallback,
			CreatedAt:        r.CreatedAt,
		}
	}
	return result
}

// ConvertForecastResult converts a freshly produced forecast into Parquet rows.
func ConvertForecastResult(result schema.ForecastResult) []Forecast {
	rows := make([]Forecast, len(result.Points))
	for i, p := range result.Points {
		rows[i] = Forecast{
			UserID:           result.UserID,
			TargetDate:       schema.FormatDate(p.Date),
			ModelVersion:     result.ModelVersion,
			HorizonDays:      int32(result.HorizonDays),
			PredictedMinutes: int32(p.PredictedMinutes),
			LowerBound:       p.LowerBound,
			UpperBound:       p.UpperBound,
			Fallback:         p.Fallback,
			CreatedAt:        result.GeneratedAt,
		}
	}
	return rows
}

// ConvertPlanRecords converts stored plan rows into Parquet rows.
func ConvertPlanRecords(records []schema.PlanRecord) []Plan {
	result := make([]Plan, len(records))
	for i, r := range records {
		result[i] = Plan{
			PlanID:           r.PlanID,
			UserID:           r.UserID,
			StartDate:        schema.FormatDate(r.StartDate),
			EndDate:          schema.FormatDate(r.EndDate),
			TargetHours:      r.TargetHours,
			IsFeasible:       r.IsFeasible,
			FeasibilityScore: r.FeasibilityScore,
			ModelVersion:     r.ModelVersion,
			Payload:          r.Payload,
			CreatedAt:        r.CreatedAt,
		}
	}
	return result
}

// ConvertModelRecords converts registry rows into Parquet rows.
func ConvertModelRecords(records []schema.ModelRecord) []Model {
	result := make([]Model, len(records))
	for i, r := range records {
		m := Model{
			ModelVersion:   r.ModelVersion,
			ModelType:      r.ModelType,
			FeatureCount:   int32(r.FeatureCount),
			P90AbsResidual: r.P90AbsResidual,
			MAETest:        r.MAETest,
			TrainRows:      int32(r.TrainRows),
			TestRows:       int32(r.TestRows),
			RegisteredAt:   r.RegisteredAt,
		}
		if r.CutoffDate != "" {
			cutoff := r.CutoffDate
			m.CutoffDate = &cutoff
		}
		result[i] = m
	}
	return result
}
