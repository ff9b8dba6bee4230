package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteRequiresUser(t *testing.T) {
	planner := &MockPlanner{}
	cfg := &contract.Config{}
	ctx := context.Background()

	assert.ErrorIs(t, ExecuteForecast(ctx, cfg, planner), ErrUserRequired)
	assert.ErrorIs(t, ExecutePlan(ctx, cfg, planner, time.Now()), ErrUserRequired)
	assert.ErrorIs(t, ExecuteExplain(ctx, cfg, planner), ErrUserRequired)
	assert.ErrorIs(t, ExecuteBudget(ctx, cfg, planner), ErrUserRequired)
}

func TestPlanRange(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	start, end := PlanRange(&contract.Config{HorizonDays: 5}, now)
	assert.Equal(t, "2026-10-19", schema.FormatDate(start))
	assert.Equal(t, "2026-10-23", schema.FormatDate(end))

	given := time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)
	start, end = PlanRange(&contract.Config{StartDate: given}, now)
	assert.Equal(t, given, start)
	assert.Equal(t, given, end)
}

func TestExecuteForecastWritesOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "forecast.json")
	cfg := &contract.Config{UserID: "ana", HorizonDays: 2, Output: schema.JSONOut, OutputFile: file}

	planner := &MockPlanner{}
	planner.On("Forecast", mock.Anything, "ana", 2).Return(schema.ForecastResult{UserID: "ana", HorizonDays: 2}, nil)

	require.NoError(t, ExecuteForecast(context.Background(), cfg, planner))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"horizon_days": 2`)
	planner.AssertExpectations(t)
}

func TestExecuteBudgetPropagatesErrors(t *testing.T) {
	cfg := &contract.Config{UserID: "ana", Period: schema.WeekPeriod, TargetHours: 5}
	planner := &MockPlanner{}
	planner.On("Budget", mock.Anything, "ana", schema.WeekPeriod, 5.0).Return(schema.BudgetPlan{}, ErrInsufficientHistory)

	assert.ErrorIs(t, ExecuteBudget(context.Background(), cfg, planner), ErrInsufficientHistory)
}
