package core

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/model"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileFunc adapts a function to contract.ProfileSource.
type profileFunc func(ctx context.Context, userID string) (schema.WorkProfile, error)

func (f profileFunc) FetchProfile(ctx context.Context, userID string) (schema.WorkProfile, error) {
	return f(ctx, userID)
}

// slowHistory blocks until the fetch is cancelled.
type slowHistory struct{}

func (slowHistory) FetchHistory(ctx context.Context, _ string, _ int) ([]schema.DailyRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func testConfig() *contract.Config {
	return &contract.Config{
		FeatureSet:     schema.FullFeatureSet,
		ModelTimeout:   time.Second,
		FetchTimeout:   time.Second,
		HistoryDays:    120,
		SessionDays:    90,
		WorkdayMinutes: 480,
		AllowBaseline:  true,
	}
}

type serviceFixture struct {
	svc       *Service
	model     *model.MockModel
	history   *iocache.MockHistoryStore
	forecasts *iocache.MockForecastStore
}

func newServiceFixture(t *testing.T, cfg *contract.Config, profiles contract.ProfileSource) serviceFixture {
	t.Helper()
	f := serviceFixture{
		model:     newMockModel(testMetadata(10)),
		history:   &iocache.MockHistoryStore{},
		forecasts: &iocache.MockForecastStore{},
	}
	svc, err := NewService(cfg, Deps{
		Model:     f.model,
		History:   f.history,
		Sessions:  f.history,
		Profiles:  profiles,
		Forecasts: f.forecasts,
	})
	require.NoError(t, err)
	svc.SetClock(func() time.Time { return day0.Add(10 * time.Hour) })
	f.svc = svc
	return f
}

func (f serviceFixture) expectSaves(horizon int, err error) {
	f.forecasts.On("RegisterModel", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.forecasts.On("SaveForecast", mock.Anything, "ana", mock.Anything, horizon, "xgb-test").Return(err)
}

func staticProfile(p schema.WorkProfile) contract.ProfileSource {
	return profileFunc(func(context.Context, string) (schema.WorkProfile, error) { return p, nil })
}

func TestNewService(t *testing.T) {
	_, err := NewService(testConfig(), Deps{History: &iocache.MockHistoryStore{}})
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = NewService(testConfig(), Deps{Model: newMockModel(testMetadata(1))})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.FeatureSet = "v9"
	_, err = NewService(cfg, Deps{Model: newMockModel(testMetadata(1)), History: &iocache.MockHistoryStore{}})
	assert.Error(t, err)
}

func TestServiceForecast(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(100.0, nil)
	f.expectSaves(3, nil)

	result, err := f.svc.Forecast(context.Background(), "ana", 3)
	require.NoError(t, err)

	assert.Equal(t, "ana", result.UserID)
	assert.Equal(t, "xgb-test", result.ModelVersion)
	assert.Equal(t, schema.FullFeatureSet, result.FeatureSet)
	assert.False(t, result.Baseline)
	assert.Len(t, result.Points, 3)
	require.NotNil(t, result.Insights)
	assert.Equal(t, schema.RiskLow, result.Insights.RiskLevel)
	assert.Equal(t, day0.Add(10*time.Hour), result.GeneratedAt)

	_, err = f.svc.Forecast(context.Background(), "ana", 3)
	require.NoError(t, err)
	f.forecasts.AssertNumberOfCalls(t, "RegisterModel", 1)
	f.forecasts.AssertNumberOfCalls(t, "SaveForecast", 2)
}

func TestServiceForecastSwallowsSinkFailure(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(80.0, nil)
	f.expectSaves(2, errors.New("disk full"))

	result, err := f.svc.Forecast(context.Background(), "ana", 2)
	require.NoError(t, err)
	assert.Len(t, result.Points, 2)
}

func TestServiceForecastBaseline(t *testing.T) {
	values := []float64{100, 110, 90, 120, 130, 115, 140}
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(len(values), fromSlice(values)), nil)
	f.expectSaves(1, nil)

	result, err := f.svc.Forecast(context.Background(), "ana", 1)
	require.NoError(t, err)
	assert.True(t, result.Baseline)
	require.Len(t, result.Points, 1)
	assert.Equal(t, int(math.Round(weightedMean(values))), result.Points[0].PredictedMinutes)
	f.model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestServiceForecastErrors(t *testing.T) {
	cfg := testConfig()
	cfg.AllowBaseline = false
	f := newServiceFixture(t, cfg, nil)
	f.history.On("FetchHistory", mock.Anything, "short", 120).Return(makeHistory(7, constant(90)), nil)
	f.history.On("FetchHistory", mock.Anything, "nobody", 120).Return(nil, nil)
	f.history.On("FetchHistory", mock.Anything, "broken", 120).Return(nil, errors.New("connection refused"))

	_, err := f.svc.Forecast(context.Background(), "short", 1)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = f.svc.Forecast(context.Background(), "nobody", 1)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = f.svc.Forecast(context.Background(), "broken", 1)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, ErrorKind(""), KindOf(err))

	_, err = f.svc.Forecast(context.Background(), "ana", 9)
	assert.ErrorIs(t, err, ErrInvalidRange)

	f.model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	f.forecasts.AssertNotCalled(t, "SaveForecast", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceHistoryTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.FetchTimeout = 5 * time.Millisecond
	svc, err := NewService(cfg, Deps{Model: newMockModel(testMetadata(1)), History: slowHistory{}})
	require.NoError(t, err)

	_, err = svc.Forecast(context.Background(), "ana", 1)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.ErrorContains(t, err, "timed out")
}

func TestServicePlan(t *testing.T) {
	f := newServiceFixture(t, testConfig(), staticProfile(analyzedProfile()))
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.history.On("FetchSessions", mock.Anything, "ana", 90).Return(sessionsBetween(14, 9, 17), nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(60.0, nil)
	f.expectSaves(3, nil)
	f.forecasts.On("SavePlan", mock.Anything, mock.AnythingOfType("schema.PlanSchedule")).Return(nil)

	plan, err := f.svc.Plan(context.Background(), "ana", day0, day0.AddDate(0, 0, 2), 15)
	require.NoError(t, err)

	assert.Len(t, plan.PlanID, 26)
	assert.Equal(t, "ana", plan.UserID)
	assert.True(t, plan.IsFeasible)
	assert.Equal(t, 22.5, plan.TotalAvailableHours)
	assert.Equal(t, 100.0, plan.FeasibilityScore)
	require.NotNil(t, plan.Suggestion)
	assert.Equal(t, 19.8, plan.Suggestion.SuggestedHours)
	assert.Empty(t, plan.Warnings)
	assert.Equal(t, "morning", plan.BestHours.RecommendedTime)
	assert.Equal(t, schema.ConfidenceHigh, plan.Confidence.Level)
	assert.False(t, plan.WorkProfile.Defaulted)
	assert.Equal(t, "xgb-test", plan.ModelVersion)

	require.Len(t, plan.Days, 3)
	for i, d := range plan.Days {
		assert.Equal(t, day0.AddDate(0, 0, i), d.Date)
		assert.Equal(t, 5.0, d.AllocatedHours)
		assert.LessOrEqual(t, d.AllocatedHours, d.AvailableHours)
		require.NotEmpty(t, d.HourlySchedule)
		var hours float64
		for _, s := range d.HourlySchedule {
			assert.GreaterOrEqual(t, s.Hour, 9)
			assert.Less(t, s.Hour, 17)
			hours += s.DurationHours
		}
		assert.InDelta(t, d.AllocatedHours, hours, 0.05)
		assert.Zero(t, d.UnscheduledHours)
	}
	assert.Empty(t, plan.SkippedDates)
	f.forecasts.AssertNumberOfCalls(t, "SavePlan", 1)
}

func TestServicePlanNarrowWorkWindow(t *testing.T) {
	profile := analyzedProfile()
	profile.TypicalEndHour = 11
	f := newServiceFixture(t, testConfig(), staticProfile(profile))
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.history.On("FetchSessions", mock.Anything, "ana", 90).Return(sessionsBetween(14, 9, 11), nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(60.0, nil)
	f.expectSaves(3, nil)
	f.forecasts.On("SavePlan", mock.Anything, mock.Anything).Return(nil)

	plan, err := f.svc.Plan(context.Background(), "ana", day0, day0.AddDate(0, 0, 2), 15)
	require.NoError(t, err)
	require.Len(t, plan.Days, 3)
	for _, d := range plan.Days {
		assert.Equal(t, 5.0, d.AllocatedHours)
		require.Len(t, d.HourlySchedule, 2)
		assert.Equal(t, 3.0, d.UnscheduledHours)
		assert.Equal(t, NoteOverflow, d.Note)
	}
}

func TestServicePlanSkipsHistoryDays(t *testing.T) {
	f := newServiceFixture(t, testConfig(), staticProfile(analyzedProfile()))
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.history.On("FetchSessions", mock.Anything, "ana", 90).Return(sessionsBetween(14, 9, 17), nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(60.0, nil)
	f.expectSaves(2, nil)
	f.forecasts.On("SavePlan", mock.Anything, mock.Anything).Return(nil)

	plan, err := f.svc.Plan(context.Background(), "ana", day0.AddDate(0, 0, -2), day0.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day0.AddDate(0, 0, -2), day0.AddDate(0, 0, -1)}, plan.SkippedDates)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, day0, plan.Days[0].Date)
}

func TestServicePlanDefaultsProfile(t *testing.T) {
	failing := profileFunc(func(context.Context, string) (schema.WorkProfile, error) {
		return schema.WorkProfile{}, errors.New("profile service down")
	})
	f := newServiceFixture(t, testConfig(), failing)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.history.On("FetchSessions", mock.Anything, "ana", 90).Return(nil, errors.New("no sessions"))
	f.model.On("Predict", mock.Anything, mock.Anything).Return(60.0, nil)
	f.expectSaves(1, nil)
	f.forecasts.On("SavePlan", mock.Anything, mock.Anything).Return(errors.New("read only"))

	plan, err := f.svc.Plan(context.Background(), "ana", day0, day0, 4)
	require.NoError(t, err)
	assert.True(t, plan.WorkProfile.Defaulted)
	assert.Equal(t, schema.ConfidenceMedium, plan.Confidence.Level, "defaulted profile lowers confidence")
	require.Len(t, plan.Days, 1)
	assert.NotEmpty(t, plan.Days[0].HourlySchedule)
}

func TestServicePlanShortHistoryLowConfidence(t *testing.T) {
	empty := schema.WorkProfile{TypicalStartHour: 9, TypicalEndHour: 17}
	f := newServiceFixture(t, testConfig(), staticProfile(empty))
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(5, constant(40)), nil)
	f.history.On("FetchSessions", mock.Anything, "ana", 90).Return(nil, nil)
	f.expectSaves(2, nil)
	f.forecasts.On("SavePlan", mock.Anything, mock.Anything).Return(nil)

	plan, err := f.svc.Plan(context.Background(), "ana", day0, day0.AddDate(0, 0, 1), 6)
	require.NoError(t, err)
	assert.True(t, plan.LowConfidence)
	assert.False(t, plan.IsFeasible)
	for _, d := range plan.Days {
		assert.Equal(t, NoteNoHistory, d.Note)
		assert.Empty(t, d.HourlySchedule)
	}
}

func TestServicePlanInvalidRange(t *testing.T) {
	f := newServiceFixture(t, testConfig(), staticProfile(analyzedProfile()))
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)

	tests := []struct {
		name       string
		start, end time.Time
		target     float64
	}{
		{"end before start", day0.AddDate(0, 0, 2), day0, 5},
		{"eight days", day0, day0.AddDate(0, 0, 7), 5},
		{"end too far out", day0.AddDate(0, 0, 5), day0.AddDate(0, 0, 9), 5},
		{"end inside history", day0.AddDate(0, 0, -3), day0.AddDate(0, 0, -1), 5},
		{"negative target", day0, day0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Plan(context.Background(), "ana", tt.start, tt.end, tt.target)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
	f.model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)

	_, err := f.svc.Plan(context.Background(), "ana", day0.AddDate(0, 0, 5), day0.AddDate(0, 0, 9), 5)
	assert.ErrorContains(t, err, "latest possible end is 2026-10-25")
}

func TestServiceExplain(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.model.On("Importance").Return(map[string]float64{"focus_lag_1": 50, "idle_minutes": 10, "dow": 0})

	exp, err := f.svc.Explain(context.Background(), "ana", 3)
	require.NoError(t, err)
	assert.Equal(t, "xgb-test", exp.ModelVersion)
	assert.Equal(t, day0.AddDate(0, 0, -1), exp.AsOf)

	require.Len(t, exp.GlobalImportance, 3)
	assert.Equal(t, "focus_lag_1", exp.GlobalImportance[0].Feature)
	assert.Equal(t, 1.0, exp.GlobalImportance[0].Importance)
	assert.Equal(t, "idle_minutes", exp.GlobalImportance[1].Feature)
	assert.Equal(t, 0.2, exp.GlobalImportance[1].Importance)

	require.Len(t, exp.LocalImpacts, 3)
	assert.Equal(t, "focus_lag_1", exp.LocalImpacts[0].Feature)
	require.NotNil(t, exp.LocalImpacts[0].Value)
	assert.Equal(t, 100.0, *exp.LocalImpacts[0].Value)
	assert.Equal(t, 100.0, exp.LocalImpacts[0].Impact)
	assert.Equal(t, "idle_minutes", exp.LocalImpacts[1].Feature)
	assert.Equal(t, 6.0, exp.LocalImpacts[1].Impact)
}

func TestServiceExplainTopAndNoHistory(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "new", 120).Return(nil, nil)
	f.model.On("Importance").Return(map[string]float64{"focus_lag_1": 3})

	exp, err := f.svc.Explain(context.Background(), "new", 0)
	require.NoError(t, err)
	assert.Len(t, exp.GlobalImportance, contract.DefaultExplainTop)
	assert.Empty(t, exp.LocalImpacts)
	assert.True(t, exp.AsOf.IsZero())

	exp, err = f.svc.Explain(context.Background(), "new", 100)
	require.NoError(t, err)
	assert.Len(t, exp.GlobalImportance, contract.MaxExplainTop)
}

func TestServiceBudgetUsesSavedForecast(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	f.forecasts.On("LatestForecast", mock.Anything, "ana", 7).Return(flatPoints(7, 120, 10), "xgb-old", nil)

	plan, err := f.svc.Budget(context.Background(), "ana", schema.WeekPeriod, 10)
	require.NoError(t, err)
	assert.Equal(t, "ana", plan.UserID)
	assert.Equal(t, "xgb-old", plan.ModelVersion)
	assert.True(t, plan.Feasible)
	assert.Equal(t, schema.DayWindow, plan.BestWindow)
	f.model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestServiceBudgetRefreshesStaleForecast(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)
	f.history.On("FetchHistory", mock.Anything, "ana", 120).Return(makeHistory(30, constant(100)), nil)
	stale := flatPoints(1, 120, 10)
	stale[0].Date = day0.AddDate(0, 0, -2)
	f.forecasts.On("LatestForecast", mock.Anything, "ana", 1).Return(stale, "xgb-old", nil)
	f.model.On("Predict", mock.Anything, mock.Anything).Return(120.0, nil)
	f.expectSaves(1, nil)

	plan, err := f.svc.Budget(context.Background(), "ana", schema.DayPeriod, 1)
	require.NoError(t, err)
	assert.Equal(t, "xgb-test", plan.ModelVersion)
	require.Len(t, plan.Days, 1)
	assert.Equal(t, day0, plan.Days[0].Date)
	f.forecasts.AssertNumberOfCalls(t, "SaveForecast", 1)
}

func TestServiceBudgetValidation(t *testing.T) {
	f := newServiceFixture(t, testConfig(), nil)

	_, err := f.svc.Budget(context.Background(), "ana", schema.WeekPeriod, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = f.svc.Budget(context.Background(), "ana", "year", 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
	f.history.AssertNotCalled(t, "FetchHistory", mock.Anything, mock.Anything, mock.Anything)
}
