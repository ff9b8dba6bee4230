package model

import (
	"context"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/mock"
)

// MockModel is a mock implementation of contract.Model.
type MockModel struct {
	mock.Mock
}

var _ contract.Model = &MockModel{} // Compile-time check

// Predict mocks the Predict method.
func (m *MockModel) Predict(ctx context.Context, features []float64) (float64, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(float64), args.Error(1)
}

// Metadata mocks the Metadata method.
func (m *MockModel) Metadata() schema.ModelMetadata {
	args := m.Called()
	return args.Get(0).(schema.ModelMetadata)
}

// Importance mocks the Importance method.
func (m *MockModel) Importance() map[string]float64 {
	args := m.Called()
	return args.Get(0).(map[string]float64)
}
