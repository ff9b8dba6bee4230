// Package scheduler refreshes saved forecasts on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// RunReport summarizes one refresh over all users.
type RunReport struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Refreshed []string
	Failed    map[string]error
}

// Scheduler forecasts every configured user on each tick. A forecast saves itself,
// so the next budget request reads a fresh run.
type Scheduler struct {
	cron    *cron.Cron
	planner contract.Planner
	users   []string
	horizon int
	timeout time.Duration

	mu   sync.Mutex
	last RunReport
}

// New validates a standard five field cron spec and registers the refresh job.
func New(spec string, planner contract.Planner, users []string, horizonDays int, timeout time.Duration) (*Scheduler, error) {
	if len(users) == 0 {
		return nil, errors.New("at least one user is required for scheduled refresh")
	}
	if horizonDays < 1 || horizonDays > contract.MaxHorizonDays {
		return nil, fmt.Errorf("horizon must be between 1 and %d (received %d)", contract.MaxHorizonDays, horizonDays)
	}
	s := &Scheduler{
		cron:    cron.New(),
		planner: planner,
		users:   users,
		horizon: horizonDays,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid schedule '%s': %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	logger.Info("scheduler started", "users", len(s.users), "horizon", s.horizon)
	s.cron.Start()
}

// Stop stops new ticks and waits for a running refresh, or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce refreshes every user sequentially. Failures are recorded per user.
func (s *Scheduler) RunOnce(ctx context.Context) RunReport {
	report := RunReport{
		ID:      uuid.NewString(),
		Started: time.Now().UTC(),
		Failed:  map[string]error{},
	}
	logger.Info("forecast refresh started", "run", report.ID)

	for _, user := range s.users {
		if ctx.Err() != nil {
			report.Failed[user] = ctx.Err()
			continue
		}
		userCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.timeout > 0 {
			userCtx, cancel = context.WithTimeout(ctx, s.timeout)
		}
		_, err := s.planner.Forecast(userCtx, user, s.horizon)
		cancel()
		if err != nil {
			logger.Warn("forecast refresh failed", "run", report.ID, "user", user, "error", err)
			report.Failed[user] = err
			continue
		}
		report.Refreshed = append(report.Refreshed, user)
	}

	report.Finished = time.Now().UTC()
	logger.Info("forecast refresh finished", "run", report.ID,
		"refreshed", len(report.Refreshed), "failed", len(report.Failed))

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	return report
}

// LastRun returns the report of the most recent refresh.
func (s *Scheduler) LastRun() RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
