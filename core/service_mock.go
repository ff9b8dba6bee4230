package core

import (
	"context"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/mock"
)

// MockPlanner is a mock implementation of contract.Planner.
type MockPlanner struct {
	mock.Mock
}

var _ contract.Planner = &MockPlanner{} // Compile-time check

// Forecast mocks the Forecast method.
func (m *MockPlanner) Forecast(ctx context.Context, userID string, horizonDays int) (schema.ForecastResult, error) {
	args := m.Called(ctx, userID, horizonDays)
	return args.Get(0).(schema.ForecastResult), args.Error(1)
}

// Plan mocks the Plan method.
func (m *MockPlanner) Plan(ctx context.Context, userID string, start, end time.Time, targetHours float64) (schema.PlanSchedule, error) {
	args := m.Called(ctx, userID, start, end, targetHours)
	return args.Get(0).(schema.PlanSchedule), args.Error(1)
}

// Explain mocks the Explain method.
func (m *MockPlanner) Explain(ctx context.Context, userID string, top int) (schema.Explanation, error) {
	args := m.Called(ctx, userID, top)
	return args.Get(0).(schema.Explanation), args.Error(1)
}

// Budget mocks the Budget method.
func (m *MockPlanner) Budget(ctx context.Context, userID string, period schema.Period, targetHours float64) (schema.BudgetPlan, error) {
	args := m.Called(ctx, userID, period, targetHours)
	return args.Get(0).(schema.BudgetPlan), args.Error(1)
}
