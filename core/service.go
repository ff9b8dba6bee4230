// Package core has the forecasting, confidence, capacity and scheduling logic of busybee.
package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/oklog/ulid/v2"
)

// Deps are the external collaborators of a Service. Sessions, Profiles and
// Forecasts are optional.
type Deps struct {
	Model     contract.Model
	History   contract.HistorySource
	Sessions  contract.SessionSource
	Profiles  contract.ProfileSource
	Forecasts contract.ForecastStore
}

// Service runs forecast, plan, explain and budget requests for any user.
// It is safe for concurrent use.
type Service struct {
	cfg        *contract.Config
	deps       Deps
	forecaster *RollingForecaster
	now        func() time.Time
	register   sync.Once
}

var _ contract.Planner = &Service{} // Compile-time check

// NewService binds a loaded model and its sources. A nil model is ModelUnavailable.
func NewService(cfg *contract.Config, deps Deps) (*Service, error) {
	if deps.History == nil {
		return nil, errors.New("a history source is required")
	}
	set, err := FeatureSetFor(cfg.FeatureSet)
	if err != nil {
		return nil, err
	}
	forecaster, err := NewRollingForecaster(deps.Model, set, cfg.ModelTimeout)
	if err != nil {
		return nil, err
	}
	if deps.Profiles == nil {
		deps.Profiles = &DerivedProfiles{
			History:        deps.History,
			Sessions:       deps.Sessions,
			HistoryDays:    cfg.HistoryDays,
			SessionDays:    cfg.SessionDays,
			WorkdayMinutes: cfg.WorkdayMinutes,
		}
	}
	return &Service{
		cfg:        cfg,
		deps:       deps,
		forecaster: forecaster,
		now:        time.Now,
	}, nil
}

// SetClock replaces the wall clock used for recency, ids and timestamps.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// ModelMetadata returns the metadata of the served model.
func (s *Service) ModelMetadata() schema.ModelMetadata { return s.forecaster.Metadata() }

// Forecast predicts horizonDays of focus minutes after the user's latest history day.
func (s *Service) Forecast(ctx context.Context, userID string, horizonDays int) (schema.ForecastResult, error) {
	if err := ValidateHorizon(horizonDays); err != nil {
		return schema.ForecastResult{}, err
	}
	history, err := s.fetchHistory(ctx, userID)
	if err != nil {
		return schema.ForecastResult{}, err
	}
	points, baseline, err := s.forecastFrom(ctx, history, horizonDays)
	if err != nil {
		return schema.ForecastResult{}, err
	}
	s.save(ctx, userID, points, horizonDays)

	insights := ComputeInsights(points, history)
	return schema.ForecastResult{
		UserID:       userID,
		ModelVersion: s.forecaster.Metadata().ModelVersion,
		FeatureSet:   s.forecaster.FeatureSet().Version,
		HorizonDays:  horizonDays,
		Baseline:     baseline,
		Points:       points,
		Insights:     &insights,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

// Plan forecasts the days up to end and turns them into a schedule for targetHours
// over [start, end].
func (s *Service) Plan(ctx context.Context, userID string, start, end time.Time, targetHours float64) (schema.PlanSchedule, error) {
	start, end = schema.Day(start), schema.Day(end)
	if end.Before(start) {
		return schema.PlanSchedule{}, newError(KindInvalidRange, "end date %s is before start date %s", schema.FormatDate(end), schema.FormatDate(start))
	}
	if days := schema.DaysBetween(start, end) + 1; days > MaxHorizonDays {
		return schema.PlanSchedule{}, newError(KindInvalidRange, "plan range must be between 1 and %d days (received %d)", MaxHorizonDays, days)
	}
	if targetHours < 0 || math.IsNaN(targetHours) {
		return schema.PlanSchedule{}, newError(KindInvalidRange, "target hours cannot be negative")
	}

	history, err := s.fetchHistory(ctx, userID)
	if err != nil {
		return schema.PlanSchedule{}, err
	}
	last, ok := lastMeasured(history)
	if !ok {
		return schema.PlanSchedule{}, newError(KindInsufficientHistory, "no measured history")
	}
	latest := schema.Day(history[len(history)-1].Date)
	horizon := schema.DaysBetween(latest, end)
	if horizon < 1 {
		return schema.PlanSchedule{}, newError(KindInvalidRange,
			"end date %s is not after the latest history day %s", schema.FormatDate(end), schema.FormatDate(latest))
	}
	if horizon > MaxHorizonDays {
		return schema.PlanSchedule{}, newError(KindInvalidRange,
			"end date %s is %d days after the latest history day %s; forecasts reach %d days, so the latest possible end is %s",
			schema.FormatDate(end), horizon, schema.FormatDate(latest), MaxHorizonDays,
			schema.FormatDate(latest.AddDate(0, 0, MaxHorizonDays)))
	}

	points, _, err := s.forecastFrom(ctx, history, horizon)
	if err != nil {
		return schema.PlanSchedule{}, err
	}
	s.save(ctx, userID, points, horizon)

	var inRange []schema.ForecastPoint
	for _, p := range points {
		if !schema.Day(p.Date).Before(start) {
			inRange = append(inRange, p)
		}
	}
	// Days already covered by history are not planned
	var skipped []time.Time
	for d := start; !d.After(latest); d = d.AddDate(0, 0, 1) {
		skipped = append(skipped, d)
	}

	profile := s.profile(ctx, userID)
	outlooks := OutlookFromForecast(inRange, last)
	capacity := PlanCapacity(outlooks, profile, targetHours)

	now := s.now().UTC()
	confidence := EstimateConfidence(history, max(0, schema.DaysBetween(schema.Day(last.Date), schema.Day(now))))
	if profile.Defaulted {
		confidence = DowngradeConfidence(confidence)
	}

	sessions := s.sessions(ctx, userID)
	hours := WorkHours(profile.TypicalStartHour, profile.TypicalEndHour)
	for i := range capacity.Days {
		curve := BuildHourlyCurve(sessions, schema.WeekdayIndex(capacity.Days[i].Date))
		slots, unscheduled := ScheduleDay(curve, capacity.Days[i].AllocatedHours, hours)
		capacity.Days[i].HourlySchedule = slots
		if unscheduled > 0 {
			capacity.Days[i].UnscheduledHours = unscheduled
			capacity.Days[i].Note = joinNotes(capacity.Days[i].Note, NoteOverflow)
		}
	}

	plan := schema.PlanSchedule{
		PlanID:               ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:               userID,
		Start:                start,
		End:                  end,
		TargetHours:          targetHours,
		EffectiveTargetHours: capacity.EffectiveTargetHours,
		IsFeasible:           capacity.Feasible,
		FeasibilityScore:     capacity.FeasibilityScore,
		TotalAvailableHours:  capacity.TotalAvailableHours,
		Stretch:              capacity.Stretch,
		Suggestion:           capacity.Suggestion,
		Days:                 capacity.Days,
		SkippedDates:         skipped,
		BestHours:            RecommendBestHours(outlooks),
		Confidence:           confidence,
		Warnings:             ScanWarnings(outlooks, capacity.Feasible, targetHours),
		LowConfidence:        capacity.LowConfidence,
		WorkProfile:          profile,
		ModelVersion:         s.forecaster.Metadata().ModelVersion,
		GeneratedAt:          now,
	}

	if s.deps.Forecasts != nil {
		if err := s.deps.Forecasts.SavePlan(ctx, plan); err != nil {
			logger.Warn("failed to save plan", "user", userID, "plan", plan.PlanID, "error", err)
		}
	}
	return plan, nil
}

// Explain ranks the model's native importance normalized to [0, 1] and approximates the
// local impact of each feature as its normalized importance times its latest value.
// A user without history gets no local impacts.
func (s *Service) Explain(ctx context.Context, userID string, top int) (schema.Explanation, error) {
	top = contract.ClampExplainTop(top)
	meta := s.forecaster.Metadata()

	history, err := s.fetchHistory(ctx, userID)
	if err != nil && !errors.Is(err, ErrInsufficientHistory) {
		return schema.Explanation{}, err
	}

	normalized := normalizeImportance(s.deps.Model.Importance())
	names := meta.Features
	if len(names) == 0 {
		names = s.forecaster.FeatureSet().Names
	}

	global := make([]schema.FeatureImpact, 0, len(names))
	for _, n := range names {
		global = append(global, schema.FeatureImpact{
			Feature:    n,
			Importance: schema.Round2(normalized[n]),
		})
	}
	sortImpacts(global, func(f schema.FeatureImpact) float64 { return f.Importance })

	explanation := schema.Explanation{
		UserID:           userID,
		ModelVersion:     meta.ModelVersion,
		GlobalImportance: global[:min(top, len(global))],
		LocalImpacts:     []schema.FeatureImpact{},
	}
	if len(history) == 0 {
		return explanation, nil
	}

	window := NewFeatureWindow(history)
	idx := window.Len() - 1
	asOf := schema.Day(window.Last().Date)
	row := window.Row(s.forecaster.FeatureSet(), idx, asOf.AddDate(0, 0, 1))
	explanation.AsOf = asOf

	local := make([]schema.FeatureImpact, 0, len(names))
	for _, n := range names {
		impact := schema.FeatureImpact{Feature: n, Importance: schema.Round2(normalized[n])}
		if v, ok := row.Get(n).Get(); ok {
			value := schema.Round2(v)
			impact.Value = &value
			impact.Impact = schema.Round2(normalized[n] * v)
		}
		local = append(local, impact)
	}
	sortImpacts(local, func(f schema.FeatureImpact) float64 { return math.Abs(f.Impact) })
	explanation.LocalImpacts = local[:min(top, len(local))]
	return explanation, nil
}

// Budget spreads targetHours over the next day or week using the latest saved forecast,
// producing and saving a new forecast when none covers the period.
func (s *Service) Budget(ctx context.Context, userID string, period schema.Period, targetHours float64) (schema.BudgetPlan, error) {
	horizon, err := PeriodHorizon(period)
	if err != nil {
		return schema.BudgetPlan{}, err
	}
	if targetHours <= 0 || math.IsNaN(targetHours) || math.IsInf(targetHours, 0) {
		return schema.BudgetPlan{}, newError(KindInvalidRange, "target hours must be a positive number")
	}

	history, err := s.fetchHistory(ctx, userID)
	if err != nil {
		return schema.BudgetPlan{}, err
	}

	points, version := s.latestForecast(ctx, userID, horizon, history)
	if len(points) == 0 {
		result, err := s.Forecast(ctx, userID, horizon)
		if err != nil {
			return schema.BudgetPlan{}, err
		}
		points, version = result.Points, result.ModelVersion
	}

	plan, err := BuildBudget(period, targetHours, points, BestFocusWindow(history))
	if err != nil {
		return schema.BudgetPlan{}, err
	}
	plan.UserID = userID
	plan.ModelVersion = version
	return plan, nil
}

// latestForecast returns a saved forecast that still starts after the latest history day.
func (s *Service) latestForecast(ctx context.Context, userID string, horizon int, history []schema.DailyRecord) ([]schema.ForecastPoint, string) {
	if s.deps.Forecasts == nil {
		return nil, ""
	}
	points, version, err := s.deps.Forecasts.LatestForecast(ctx, userID, horizon)
	if err != nil {
		logger.Warn("failed to read saved forecast", "user", userID, "error", err)
		return nil, ""
	}
	if len(points) < horizon {
		return nil, ""
	}
	lastDay := schema.Day(history[len(history)-1].Date)
	if !schema.Day(points[0].Date).After(lastDay) {
		logger.Debug("saved forecast is stale", "user", userID, "first", schema.FormatDate(points[0].Date))
		return nil, ""
	}
	return points[:horizon], version
}

// forecastFrom runs the model, or the baseline estimator for short histories when allowed.
func (s *Service) forecastFrom(ctx context.Context, history []schema.DailyRecord, horizonDays int) ([]schema.ForecastPoint, bool, error) {
	if len(history) < s.forecaster.FeatureSet().MinHistory && s.cfg.AllowBaseline {
		logger.Info("history shorter than feature set minimum, using baseline",
			"days", len(history), "min", s.forecaster.FeatureSet().MinHistory)
		points, err := s.forecaster.Baseline(history, horizonDays)
		return points, true, err
	}
	points, err := s.forecaster.Forecast(ctx, history, horizonDays)
	return points, false, err
}

// fetchHistory reads the user's measured days under the fetch timeout.
func (s *Service) fetchHistory(ctx context.Context, userID string) ([]schema.DailyRecord, error) {
	fetchCtx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	history, err := s.deps.History.FetchHistory(fetchCtx, userID, s.cfg.HistoryDays)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, wrapError(KindInsufficientHistory, err, "history fetch timed out")
	case err != nil:
		return nil, fmt.Errorf("fetch history for %s: %w", userID, err)
	case len(history) == 0:
		return nil, newError(KindInsufficientHistory, "no history for user %s", userID)
	}
	return history, nil
}

// profile returns the user's work profile, or the defaults when it cannot be fetched.
func (s *Service) profile(ctx context.Context, userID string) schema.WorkProfile {
	fetchCtx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	profile, err := s.deps.Profiles.FetchProfile(fetchCtx, userID)
	if err != nil {
		logger.Warn("work profile unavailable, using defaults", "user", userID, "error", err)
		return schema.DefaultWorkProfile()
	}
	return profile
}

// sessions returns the user's focus sessions, or none when they cannot be fetched.
func (s *Service) sessions(ctx context.Context, userID string) []schema.FocusSession {
	if s.deps.Sessions == nil {
		return nil
	}
	fetchCtx, cancel := s.withFetchTimeout(ctx)
	defer cancel()

	sessions, err := s.deps.Sessions.FetchSessions(fetchCtx, userID, s.cfg.SessionDays)
	if err != nil {
		logger.Warn("focus sessions unavailable", "user", userID, "error", err)
		return nil
	}
	return sessions
}

// save hands points to the sink. Failures are logged and never fail the request.
func (s *Service) save(ctx context.Context, userID string, points []schema.ForecastPoint, horizonDays int) {
	if s.deps.Forecasts == nil {
		return
	}
	meta := s.forecaster.Metadata()
	s.register.Do(func() {
		if err := s.deps.Forecasts.RegisterModel(ctx, meta, s.now().UTC()); err != nil {
			logger.Warn("failed to register model", "model", meta.ModelVersion, "error", err)
		}
	})
	if err := s.deps.Forecasts.SaveForecast(ctx, userID, points, horizonDays, meta.ModelVersion); err != nil {
		logger.Warn("failed to save forecast", "user", userID, "horizon", horizonDays, "error", err)
	}
}

func (s *Service) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

// normalizeImportance scales non-negative importance so the largest value is 1.
func normalizeImportance(raw map[string]float64) map[string]float64 {
	var peak float64
	for _, v := range raw {
		peak = math.Max(peak, math.Abs(v))
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if peak > 0 {
			out[k] = math.Abs(v) / peak
		}
	}
	return out
}

// sortImpacts orders impacts by key descending, then by feature name.
func sortImpacts(impacts []schema.FeatureImpact, key func(schema.FeatureImpact) float64) {
	sort.SliceStable(impacts, func(i, j int) bool {
		ki, kj := key(impacts[i]), key(impacts[j])
		if ki != kj {
			return ki > kj
		}
		return impacts[i].Feature < impacts[j].Feature
	})
}
