package core

import (
	"context"
	"errors"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/outwriter"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// ErrUserRequired is returned by commands run without a user.
var ErrUserRequired = errors.New("--user is required")

// ExecuteForecast runs a forecast for cfg.UserID and prints it.
// It serves as the main entry point for the 'forecast' command.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, planner contract.Planner) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	start := time.Now()
	result, err := planner.Forecast(ctx, cfg.UserID, cfg.HorizonDays)
	if err != nil {
		return err
	}
	logger.Info("forecast finished", "user", cfg.UserID, "days", cfg.HorizonDays, "duration", time.Since(start))
	return outwriter.NewOutWriter().WriteForecast(result, cfg)
}

// ExecutePlan plans cfg.TargetHours over [cfg.StartDate, cfg.EndDate] and prints the schedule.
// Without dates the plan covers the configured horizon starting today.
func ExecutePlan(ctx context.Context, cfg *contract.Config, planner contract.Planner, now time.Time) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	startDate, endDate := PlanRange(cfg, now)
	start := time.Now()
	plan, err := planner.Plan(ctx, cfg.UserID, startDate, endDate, cfg.TargetHours)
	if err != nil {
		return err
	}
	logger.Info("plan finished", "user", cfg.UserID, "plan", plan.PlanID, "duration", time.Since(start))
	return outwriter.NewOutWriter().WritePlan(plan, cfg)
}

// PlanRange resolves the plan dates. A missing start is today and a missing end
// closes the configured horizon.
func PlanRange(cfg *contract.Config, now time.Time) (time.Time, time.Time) {
	startDate := cfg.StartDate
	if startDate.IsZero() {
		startDate = schema.Day(now)
	}
	endDate := cfg.EndDate
	if endDate.IsZero() {
		endDate = startDate.AddDate(0, 0, max(cfg.HorizonDays, 1)-1)
	}
	return startDate, endDate
}

// ExecuteExplain prints the feature importance of the served model for cfg.UserID.
func ExecuteExplain(ctx context.Context, cfg *contract.Config, planner contract.Planner) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	explanation, err := planner.Explain(ctx, cfg.UserID, cfg.Top)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteExplanation(explanation, cfg)
}

// ExecuteBudget spreads cfg.TargetHours over cfg.Period and prints the budget.
func ExecuteBudget(ctx context.Context, cfg *contract.Config, planner contract.Planner) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	budget, err := planner.Budget(ctx, cfg.UserID, cfg.Period, cfg.TargetHours)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBudget(budget, cfg)
}
