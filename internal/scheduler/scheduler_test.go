package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	planner := &core.MockPlanner{}

	_, err := New("0 2 * * *", planner, nil, 7, 0)
	assert.ErrorContains(t, err, "at least one user")

	_, err = New("0 2 * * *", planner, []string{"ana"}, 9, 0)
	assert.ErrorContains(t, err, "horizon")

	_, err = New("every night", planner, []string{"ana"}, 7, 0)
	assert.ErrorContains(t, err, "invalid schedule")

	s, err := New("0 2 * * *", planner, []string{"ana"}, 7, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRunOnce(t *testing.T) {
	planner := &core.MockPlanner{}
	planner.On("Forecast", mock.Anything, "ana", 7).Return(schema.ForecastResult{UserID: "ana"}, nil)
	planner.On("Forecast", mock.Anything, "bob", 7).Return(schema.ForecastResult{}, core.ErrInsufficientHistory)
	planner.On("Forecast", mock.Anything, "cy", 7).Return(schema.ForecastResult{UserID: "cy"}, nil)

	s, err := New("0 2 * * *", planner, []string{"ana", "bob", "cy"}, 7, time.Second)
	require.NoError(t, err)

	report := s.RunOnce(context.Background())
	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ana", "cy"}, report.Refreshed)
	require.Len(t, report.Failed, 1)
	assert.True(t, errors.Is(report.Failed["bob"], core.ErrInsufficientHistory))
	assert.False(t, report.Finished.Before(report.Started))
	assert.Equal(t, report.ID, s.LastRun().ID)
	planner.AssertExpectations(t)
}

func TestRunOnceCancelled(t *testing.T) {
	planner := &core.MockPlanner{}
	s, err := New("@daily", planner, []string{"ana"}, 3, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := s.RunOnce(ctx)
	assert.Empty(t, report.Refreshed)
	assert.ErrorIs(t, report.Failed["ana"], context.Canceled)
	planner.AssertNotCalled(t, "Forecast", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartStop(t *testing.T) {
	s, err := New("0 2 * * *", &core.MockPlanner{}, []string{"ana"}, 7, 0)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
