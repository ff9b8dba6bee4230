package iocache

import (
	"context"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// GetForecastStore implements the StoreManager interface.
func (m *MockStoreManager) GetForecastStore() contract.ForecastStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ForecastStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// FetchHistory implements the HistoryStore interface.
func (m *MockHistoryStore) FetchHistory(ctx context.Context, userID string, limitDays int) ([]schema.DailyRecord, error) {
	args := m.Called(ctx, userID, limitDays)
	records, _ := args.Get(0).([]schema.DailyRecord)
	return records, args.Error(1)
}

// FetchSessions implements the HistoryStore interface.
func (m *MockHistoryStore) FetchSessions(ctx context.Context, userID string, days int) ([]schema.FocusSession, error) {
	args := m.Called(ctx, userID, days)
	sessions, _ := args.Get(0).([]schema.FocusSession)
	return sessions, args.Error(1)
}

// ImportDaily implements the HistoryStore interface.
func (m *MockHistoryStore) ImportDaily(ctx context.Context, userID string, records []schema.DailyRecord) (int, error) {
	args := m.Called(ctx, userID, records)
	return args.Int(0), args.Error(1)
}

// ImportSessions implements the HistoryStore interface.
func (m *MockHistoryStore) ImportSessions(ctx context.Context, userID string, sessions []schema.FocusSession) (int, error) {
	args := m.Called(ctx, userID, sessions)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockForecastStore is a mock implementation of ForecastStore for testing.
type MockForecastStore struct {
	mock.Mock
}

var _ contract.ForecastStore = &MockForecastStore{} // Compile-time check

// SaveForecast implements the ForecastStore interface.
func (m *MockForecastStore) SaveForecast(ctx context.Context, userID string, points []schema.ForecastPoint, horizonDays int, modelVersion string) error {
	args := m.Called(ctx, userID, points, horizonDays, modelVersion)
	return args.Error(0)
}

// LatestForecast implements the ForecastStore interface.
func (m *MockForecastStore) LatestForecast(ctx context.Context, userID string, horizonDays int) ([]schema.ForecastPoint, string, error) {
	args := m.Called(ctx, userID, horizonDays)
	points, _ := args.Get(0).([]schema.ForecastPoint)
	return points, args.String(1), args.Error(2)
}

// SavePlan implements the ForecastStore interface.
func (m *MockForecastStore) SavePlan(ctx context.Context, plan schema.PlanSchedule) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// RegisterModel implements the ForecastStore interface.
func (m *MockForecastStore) RegisterModel(ctx context.Context, meta schema.ModelMetadata, registeredAt time.Time) error {
	args := m.Called(ctx, meta, registeredAt)
	return args.Error(0)
}

// GetAllForecasts implements the ForecastStore interface.
func (m *MockForecastStore) GetAllForecasts() ([]schema.ForecastRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ForecastRecord)
	return records, args.Error(1)
}

// GetAllPlans implements the ForecastStore interface.
func (m *MockForecastStore) GetAllPlans() ([]schema.PlanRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.PlanRecord)
	return records, args.Error(1)
}

// GetAllModels implements the ForecastStore interface.
func (m *MockForecastStore) GetAllModels() ([]schema.ModelRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ModelRecord)
	return records, args.Error(1)
}

// GetStatus implements the ForecastStore interface.
func (m *MockForecastStore) GetStatus() (schema.ForecastStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ForecastStoreStatus), args.Error(1)
}

// Close implements the ForecastStore interface.
func (m *MockForecastStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
