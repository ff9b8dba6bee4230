package core

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// MaxHorizonDays is the longest forecast horizon.
const MaxHorizonDays = 7

// RollingForecaster produces multi-day forecasts by feeding each prediction
// back into the history as a carried day.
type RollingForecaster struct {
	model    contract.Model
	meta     schema.ModelMetadata
	features FeatureSet
	names    []string
	timeout  time.Duration
}

// NewRollingForecaster binds a model to a feature set. The model features are the
// projection order; names outside the set are always missing.
func NewRollingForecaster(model contract.Model, set FeatureSet, timeout time.Duration) (*RollingForecaster, error) {
	if model == nil {
		return nil, newError(KindModelUnavailable, "no model loaded")
	}
	meta := model.Metadata()
	names := meta.Features
	if len(names) == 0 {
		names = set.Names
	}
	return &RollingForecaster{
		model:    model,
		meta:     meta,
		features: set,
		names:    names,
		timeout:  timeout,
	}, nil
}

// Metadata returns the metadata of the bound model.
func (f *RollingForecaster) Metadata() schema.ModelMetadata { return f.meta }

// FeatureSet returns the bound feature set.
func (f *RollingForecaster) FeatureSet() FeatureSet { return f.features }

// ValidateHorizon checks that a horizon lies in [1, 7].
func ValidateHorizon(horizonDays int) error {
	if horizonDays < 1 || horizonDays > MaxHorizonDays {
		return newError(KindInvalidRange, "horizon must be between 1 and %d days (received %d)", MaxHorizonDays, horizonDays)
	}
	return nil
}

// Forecast predicts horizonDays days after the last record. History shorter than the
// feature set minimum fails with InsufficientHistory without calling the model.
func (f *RollingForecaster) Forecast(ctx context.Context, history []schema.DailyRecord, horizonDays int) ([]schema.ForecastPoint, error) {
	if err := ValidateHorizon(horizonDays); err != nil {
		return nil, err
	}
	if len(history) < f.features.MinHistory {
		return nil, newError(KindInsufficientHistory,
			"%d days of history, the %s feature set needs at least %d", len(history), f.features.Version, f.features.MinHistory)
	}
	return f.roll(ctx, history, horizonDays, true)
}

// Baseline predicts every step with the recency-weighted estimator.
func (f *RollingForecaster) Baseline(history []schema.DailyRecord, horizonDays int) ([]schema.ForecastPoint, error) {
	if err := ValidateHorizon(horizonDays); err != nil {
		return nil, err
	}
	return f.roll(context.Background(), history, horizonDays, false)
}

// roll runs the autoregressive loop. It either completes every step or fails.
func (f *RollingForecaster) roll(ctx context.Context, history []schema.DailyRecord, horizonDays int, useModel bool) ([]schema.ForecastPoint, error) {
	if len(history) == 0 {
		return nil, newError(KindInsufficientHistory, "no history")
	}
	window := NewFeatureWindow(history)
	lastReal, ok := lastMeasured(history)
	if !ok {
		return nil, newError(KindInsufficientHistory, "no measured history")
	}

	p90 := f.meta.P90AbsResidual
	points := make([]schema.ForecastPoint, 0, horizonDays)
	for range horizonDays {
		idx := window.Len() - 1
		next := schema.Day(window.Last().Date).AddDate(0, 0, 1)

		raw, fallback, err := f.step(ctx, window, idx, next, useModel)
		if err != nil {
			return nil, err
		}
		pred := int(math.Round(math.Max(0, raw)))

		points = append(points, schema.ForecastPoint{
			Date:             next,
			PredictedMinutes: pred,
			LowerBound:       math.Max(0, float64(pred)-p90),
			UpperBound:       float64(pred) + p90,
			Fallback:         fallback,
		})
		window.Append(carryForward(lastReal, next, pred))
	}
	return points, nil
}

// step returns the raw prediction for next and whether the fallback produced it.
func (f *RollingForecaster) step(ctx context.Context, window *FeatureWindow, idx int, next time.Time, useModel bool) (float64, bool, error) {
	fallback := func() (float64, bool, error) {
		v, _ := window.RecencyWeightedFocus()
		return v, true, nil
	}
	if !useModel {
		return fallback()
	}

	row := window.Row(f.features, idx, next)
	vector, complete := row.Project(f.names)
	if !complete {
		logger.Debug("features missing, using fallback", "date", schema.FormatDate(next), "missing", len(row.MissingNames(f.names)))
		return fallback()
	}

	v, err := f.predict(ctx, vector)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("model timed out, using fallback", "date", schema.FormatDate(next), "timeout", f.timeout)
		return fallback()
	case err != nil:
		return 0, false, wrapError(KindModelUnavailable, err, "model evaluation failed")
	}
	return v, false, nil
}

// predict calls the model under the per-call timeout. The caller's cancellation does not
// interrupt a step.
func (f *RollingForecaster) predict(ctx context.Context, vector []float64) (float64, error) {
	base := context.WithoutCancel(ctx)
	if f.timeout <= 0 {
		return f.model.Predict(base, vector)
	}
	callCtx, cancel := context.WithTimeout(base, f.timeout)
	defer cancel()

	type result struct {
		v   float64
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := f.model.Predict(callCtx, vector)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-callCtx.Done():
		return 0, callCtx.Err()
	}
}

// carryForward builds the synthetic record for date from the last measured day.
func carryForward(last schema.DailyRecord, date time.Time, focus int) schema.DailyRecord {
	r := last
	r.Date = date
	r.FocusMinutes = float64(focus)
	r.Carried = true
	return r
}

// lastMeasured returns the newest record that is not carried.
func lastMeasured(history []schema.DailyRecord) (schema.DailyRecord, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Carried {
			return history[i], true
		}
	}
	return schema.DailyRecord{}, false
}

// measuredOnly drops carried records.
func measuredOnly(history []schema.DailyRecord) []schema.DailyRecord {
	out := make([]schema.DailyRecord, 0, len(history))
	for _, r := range history {
		if !r.Carried {
			out = append(out, r)
		}
	}
	return out
}
