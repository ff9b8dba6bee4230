// Package contract provides interfaces and shared utilities for busybee's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Model is a trained regression model used as an opaque capability.
// It is loaded once at startup and never mutated afterwards.
type Model interface {
	// Predict evaluates the model on a feature vector ordered like Metadata().Features.
	Predict(ctx context.Context, features []float64) (float64, error)

	// Metadata returns the static description of the model.
	Metadata() schema.ModelMetadata

	// Importance returns the native importance of each feature (not normalized).
	Importance() map[string]float64
}

// HistorySource returns measured daily records, oldest first.
type HistorySource interface {
	FetchHistory(ctx context.Context, userID string, limitDays int) ([]schema.DailyRecord, error)
}

// SessionSource returns focus sessions started within the last days.
type SessionSource interface {
	FetchSessions(ctx context.Context, userID string, days int) ([]schema.FocusSession, error)
}

// ProfileSource returns the historical work profile of a user.
type ProfileSource interface {
	FetchProfile(ctx context.Context, userID string) (schema.WorkProfile, error)
}

// ForecastSink receives produced forecasts. Saves are idempotent upserts keyed by
// (user, date, model version, horizon).
type ForecastSink interface {
	SaveForecast(ctx context.Context, userID string, points []schema.ForecastPoint, horizonDays int, modelVersion string) error
}

// StoreManager defines the interface for managing the database stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
	GetForecastStore() ForecastStore
}

// HistoryStore defines the interface for the measured telemetry of users.
type HistoryStore interface {
	HistorySource
	SessionSource

	// ImportDaily upserts measured records; carried records are rejected.
	ImportDaily(ctx context.Context, userID string, records []schema.DailyRecord) (int, error)

	// ImportSessions appends focus sessions.
	ImportSessions(ctx context.Context, userID string, sessions []schema.FocusSession) (int, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// ForecastStore defines the interface for saved forecasts, plans and models.
type ForecastStore interface {
	ForecastSink

	// LatestForecast returns the points of the most recently saved run for a horizon,
	// ordered by date, and the model version that produced them.
	LatestForecast(ctx context.Context, userID string, horizonDays int) ([]schema.ForecastPoint, string, error)

	// SavePlan stores a generated plan under its plan id.
	SavePlan(ctx context.Context, plan schema.PlanSchedule) error

	// RegisterModel upserts a model into the registry.
	RegisterModel(ctx context.Context, meta schema.ModelMetadata, registeredAt time.Time) error

	// GetAllForecasts returns every saved forecast row.
	GetAllForecasts() ([]schema.ForecastRecord, error)

	// GetAllPlans returns every saved plan row.
	GetAllPlans() ([]schema.PlanRecord, error)

	// GetAllModels returns every registered model.
	GetAllModels() ([]schema.ModelRecord, error)

	// GetStatus returns status information about the forecast store.
	GetStatus() (schema.ForecastStoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// Planner serves the forecast, plan, explain and budget requests of any user.
type Planner interface {
	Forecast(ctx context.Context, userID string, horizonDays int) (schema.ForecastResult, error)
	Plan(ctx context.Context, userID string, start, end time.Time, targetHours float64) (schema.PlanSchedule, error)
	Explain(ctx context.Context, userID string, top int) (schema.Explanation, error)
	Budget(ctx context.Context, userID string, period schema.Period, targetHours float64) (schema.BudgetPlan, error)
}
