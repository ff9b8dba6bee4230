package iocache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryForecastStore(t *testing.T) (*ForecastStoreImpl, *time.Time) {
	t.Helper()
	store, err := NewForecastStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl := store.(*ForecastStoreImpl)
	clock := storeDay.Add(8 * time.Hour)
	impl.now = func() time.Time { return clock }
	return impl, &clock
}

func forecastPoints(start time.Time, n, pred int) []schema.ForecastPoint {
	points := make([]schema.ForecastPoint, n)
	for i := range points {
		points[i] = schema.ForecastPoint{
			Date:             start.AddDate(0, 0, i),
			PredictedMinutes: pred + i,
			LowerBound:       float64(pred+i) - 20,
			UpperBound:       float64(pred+i) + 20,
			Fallback:         i == n-1,
		}
	}
	return points
}

func TestForecastStore_NoneBackend(t *testing.T) {
	store, err := NewForecastStore(schema.NoneBackend, "")
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, store.SaveForecast(ctx, "ana", forecastPoints(storeDay, 3, 100), 3, "v1"))
	points, version, err := store.LatestForecast(ctx, "ana", 3)
	assert.NoError(t, err)
	assert.Empty(t, points)
	assert.Empty(t, version)
	assert.NoError(t, store.SavePlan(ctx, schema.PlanSchedule{}))
	assert.NoError(t, store.RegisterModel(ctx, schema.ModelMetadata{}, storeDay))
	assert.NoError(t, store.Close())
}

func TestForecastStore_SaveAndLatest(t *testing.T) {
	store, clock := newMemoryForecastStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveForecast(ctx, "ana", forecastPoints(storeDay, 7, 100), 7, "xgb-1"))

	*clock = clock.Add(24 * time.Hour)
	require.NoError(t, store.SaveForecast(ctx, "ana", forecastPoints(storeDay.AddDate(0, 0, 1), 7, 200), 7, "xgb-1"))

	points, version, err := store.LatestForecast(ctx, "ana", 7)
	require.NoError(t, err)
	assert.Equal(t, "xgb-1", version)
	require.Len(t, points, 7, "only the newest run")
	assert.Equal(t, storeDay.AddDate(0, 0, 1), points[0].Date)
	assert.Equal(t, 200, points[0].PredictedMinutes)
	assert.Equal(t, 180.0, points[0].LowerBound)
	assert.False(t, points[0].Fallback)
	assert.True(t, points[6].Fallback)

	other, _, err := store.LatestForecast(ctx, "ana", 3)
	require.NoError(t, err)
	assert.Empty(t, other, "horizons are kept apart")
}

func TestForecastStore_SaveIsIdempotent(t *testing.T) {
	store, _ := newMemoryForecastStore(t)
	ctx := context.Background()

	points := forecastPoints(storeDay, 3, 100)
	require.NoError(t, store.SaveForecast(ctx, "ana", points, 3, "v1"))
	require.NoError(t, store.SaveForecast(ctx, "ana", points, 3, "v1"))
	require.NoError(t, store.SaveForecast(ctx, "ana", points, 3, "v2"))

	rows, err := store.GetAllForecasts()
	require.NoError(t, err)
	assert.Len(t, rows, 6, "one row per (user, date, model version, horizon)")
	assert.Equal(t, storeDay.Add(8*time.Hour), rows[0].CreatedAt)
	assert.Equal(t, points[0], rows[0].Point())
}

func TestForecastStore_SavePlan(t *testing.T) {
	store, _ := newMemoryForecastStore(t)
	ctx := context.Background()

	plan := schema.PlanSchedule{
		PlanID:           "01JABCDEFGHJKMNPQRSTVWXYZ0",
		UserID:           "ana",
		Start:            storeDay,
		End:              storeDay.AddDate(0, 0, 6),
		TargetHours:      20,
		IsFeasible:       true,
		FeasibilityScore: 100,
		ModelVersion:     "xgb-1",
		GeneratedAt:      storeDay.Add(9 * time.Hour),
	}
	require.NoError(t, store.SavePlan(ctx, plan))

	plans, err := store.GetAllPlans()
	require.NoError(t, err)
	require.Len(t, plans, 1)
	got := plans[0]
	assert.Equal(t, plan.PlanID, got.PlanID)
	assert.Equal(t, plan.End, got.EndDate)
	assert.True(t, got.IsFeasible)
	assert.Equal(t, plan.GeneratedAt, got.CreatedAt)

	var decoded schema.PlanSchedule
	require.NoError(t, json.Unmarshal([]byte(got.Payload), &decoded))
	assert.Equal(t, plan.TargetHours, decoded.TargetHours)

	assert.Error(t, store.SavePlan(ctx, schema.PlanSchedule{UserID: "ana"}), "plan id is required")
}

func TestForecastStore_RegisterModel(t *testing.T) {
	store, _ := newMemoryForecastStore(t)
	ctx := context.Background()

	meta := schema.ModelMetadata{
		ModelVersion:   "xgb-1",
		ModelType:      "xgboost",
		Features:       []string{"focus_lag_1", "focus_lag_7"},
		P90AbsResidual: 42.5,
		TrainRows:      800,
		TestRows:       200,
	}
	require.NoError(t, store.RegisterModel(ctx, meta, storeDay))
	meta.CutoffDate = "2026-09-30"
	require.NoError(t, store.RegisterModel(ctx, meta, storeDay.Add(time.Hour)))

	models, err := store.GetAllModels()
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, 2, models[0].FeatureCount)
	assert.Equal(t, "2026-09-30", models[0].CutoffDate)
	assert.Equal(t, storeDay.Add(time.Hour), models[0].RegisteredAt)
}

func TestForecastStore_GetStatus(t *testing.T) {
	store, _ := newMemoryForecastStore(t)
	ctx := context.Background()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalForecasts)
	assert.True(t, status.LastForecastTime.IsZero())

	require.NoError(t, store.SaveForecast(ctx, "ana", forecastPoints(storeDay, 2, 90), 2, "v1"))
	require.NoError(t, store.SavePlan(ctx, schema.PlanSchedule{PlanID: "p1", UserID: "ana", Start: storeDay, End: storeDay}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalForecasts)
	assert.Equal(t, 1, status.TotalPlans)
	assert.Zero(t, status.TotalModels)
	assert.Equal(t, storeDay.Add(8*time.Hour), status.LastForecastTime)
	assert.Equal(t, storeDay.Add(8*time.Hour), status.LastPlanTime, "falls back to the store clock")
	assert.Len(t, status.TableSizes, 3)
}
