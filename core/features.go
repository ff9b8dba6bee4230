package core

import (
	"fmt"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Value is an optional feature value. The zero Value is missing.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value.
func Some(v float64) Value { return Value{v: v, ok: true} }

// Missing returns an absent Value.
func Missing() Value { return Value{} }

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Present reports whether the value is set.
func (v Value) Present() bool { return v.ok }

func (v Value) String() string {
	if !v.ok {
		return "missing"
	}
	return fmt.Sprintf("%g", v.v)
}

// Window length of lag and rolling features.
const rollingWindow = 7

// Fixed day/night proxy used when a record has no split.
const (
	dayShare   = 0.7
	nightShare = 0.3
)

// FeatureSet is a closed, ordered list of feature names with its own minimum history.
type FeatureSet struct {
	Version    schema.FeatureSetVersion
	Names      []string
	MinHistory int
}

var fullFeatureNames = func() []string {
	names := []string{
		"dow", "is_weekend",
		"day_focus_minutes", "night_focus_minutes",
		"error_count", "error_fix_time_min",
		"idle_minutes", "idle_sessions", "avg_idle_session_min",
		"night_ratio", "error_pressure",
		"focus_rollmean_7", "idle_rollmean_7", "errorfix_rollmean_7",
	}
	for k := 1; k <= rollingWindow; k++ {
		names = append(names,
			fmt.Sprintf("focus_lag_%d", k),
			fmt.Sprintf("idle_lag_%d", k),
			fmt.Sprintf("errorfix_lag_%d", k),
		)
	}
	return names
}()

var legacyFeatureNames = []string{
	"day_of_week", "is_weekend",
	"focus_minutes", "idle_minutes",
	"file_switch_avg_rate", "diagnostics_avg_density",
	"focus_lag_1", "focus_lag_3", "focus_lag_7",
	"file_switch_lag_1", "file_switch_lag_3", "file_switch_lag_7",
	"diagnostics_lag_1", "diagnostics_lag_3", "diagnostics_lag_7",
	"focus_rolling_mean_7",
}

// FullFeatures is the current feature set.
var FullFeatures = FeatureSet{Version: schema.FullFeatureSet, Names: fullFeatureNames, MinHistory: 20}

// LegacyFeatures is the narrower feature set of earlier models.
var LegacyFeatures = FeatureSet{Version: schema.LegacyFeatureSet, Names: legacyFeatureNames, MinHistory: 10}

// FeatureSetFor returns the feature set of a version.
func FeatureSetFor(v schema.FeatureSetVersion) (FeatureSet, error) {
	switch v {
	case schema.FullFeatureSet, "":
		return FullFeatures, nil
	case schema.LegacyFeatureSet:
		return LegacyFeatures, nil
	default:
		return FeatureSet{}, fmt.Errorf("unknown feature set %q", v)
	}
}

// Has reports whether name belongs to the set.
func (fs FeatureSet) Has(name string) bool {
	for _, n := range fs.Names {
		if n == name {
			return true
		}
	}
	return false
}

// FeatureRow holds the values of one feature set in its declared order.
type FeatureRow struct {
	set    FeatureSet
	values map[string]Value
}

// Get returns the named value; names outside the set are missing.
func (r FeatureRow) Get(name string) Value {
	return r.values[name]
}

// Names returns the feature names in order.
func (r FeatureRow) Names() []string {
	return r.set.Names
}

// Project orders the row by names. The second return is false when any value is missing.
func (r FeatureRow) Project(names []string) ([]float64, bool) {
	out := make([]float64, len(names))
	complete := true
	for i, n := range names {
		v, ok := r.values[n].Get()
		if !ok {
			complete = false
			continue
		}
		out[i] = v
	}
	return out, complete
}

// MissingNames lists the names whose value is missing, in the order given.
func (r FeatureRow) MissingNames(names []string) []string {
	var missing []string
	for _, n := range names {
		if !r.values[n].Present() {
			missing = append(missing, n)
		}
	}
	return missing
}

// FeatureWindow is the chronological history buffer of one forecast call.
type FeatureWindow struct {
	records []schema.DailyRecord
}

// NewFeatureWindow copies history into a new window.
func NewFeatureWindow(history []schema.DailyRecord) *FeatureWindow {
	records := make([]schema.DailyRecord, len(history))
	copy(records, history)
	return &FeatureWindow{records: records}
}

// Len returns the number of records, carried ones included.
func (w *FeatureWindow) Len() int { return len(w.records) }

// Last returns the newest record.
func (w *FeatureWindow) Last() schema.DailyRecord { return w.records[len(w.records)-1] }

// Records returns a copy of the buffer.
func (w *FeatureWindow) Records() []schema.DailyRecord {
	out := make([]schema.DailyRecord, len(w.records))
	copy(out, w.records)
	return out
}

// Append adds a record at the end of the buffer.
func (w *FeatureWindow) Append(r schema.DailyRecord) {
	w.records = append(w.records, r)
}

// metric extracts a named metric from a record.
func metric(r schema.DailyRecord, key string) float64 {
	switch key {
	case "focus":
		return r.FocusMinutes
	case "idle":
		return r.IdleMinutes
	case "errorfix":
		return r.ErrorFixMinutes
	case "file_switch":
		return r.FileSwitchRate
	case "diagnostics":
		return r.ErrorDensity
	default:
		return 0
	}
}

// Lag returns the metric n days before idx, missing before the buffer start.
func (w *FeatureWindow) Lag(key string, idx, n int) Value {
	j := idx - n
	if j < 0 || j >= len(w.records) {
		return Missing()
	}
	return Some(metric(w.records[j], key))
}

// RollingMean returns the mean of the metric over [idx-size, idx), missing when
// fewer than size prior days exist.
func (w *FeatureWindow) RollingMean(key string, idx, size int) Value {
	if size <= 0 || idx-size < 0 || idx > len(w.records) {
		return Missing()
	}
	var sum float64
	for j := idx - size; j < idx; j++ {
		sum += metric(w.records[j], key)
	}
	return Some(sum / float64(size))
}

// daySplit returns the day and night focus, substituting a 70/30 split when both are non-positive.
func daySplit(r schema.DailyRecord) (float64, float64) {
	if r.DayFocusMinutes <= 0 && r.NightFocusMinutes <= 0 {
		return r.FocusMinutes * dayShare, r.FocusMinutes * nightShare
	}
	return r.DayFocusMinutes, r.NightFocusMinutes
}

func boolValue(b bool) Value {
	if b {
		return Some(1)
	}
	return Some(0)
}

// Row derives the feature row of set for the record at idx, predicting nextDay.
func (w *FeatureWindow) Row(set FeatureSet, idx int, nextDay time.Time) FeatureRow {
	values := make(map[string]Value, len(set.Names))
	if idx < 0 || idx >= len(w.records) {
		return FeatureRow{set: set, values: values}
	}
	cur := w.records[idx]
	dow := schema.WeekdayIndex(nextDay)
	weekend := boolValue(dow >= 5)

	switch set.Version {
	case schema.LegacyFeatureSet:
		values["day_of_week"] = Some(float64(dow))
		values["is_weekend"] = weekend
		values["focus_minutes"] = Some(cur.FocusMinutes)
		values["idle_minutes"] = Some(cur.IdleMinutes)
		values["file_switch_avg_rate"] = Some(cur.FileSwitchRate)
		values["diagnostics_avg_density"] = Some(cur.ErrorDensity)
		for _, k := range []int{1, 3, 7} {
			values[fmt.Sprintf("focus_lag_%d", k)] = w.Lag("focus", idx, k)
			values[fmt.Sprintf("file_switch_lag_%d", k)] = w.Lag("file_switch", idx, k)
			values[fmt.Sprintf("diagnostics_lag_%d", k)] = w.Lag("diagnostics", idx, k)
		}
		values["focus_rolling_mean_7"] = w.RollingMean("focus", idx, rollingWindow)
	default:
		day, night := daySplit(cur)
		values["dow"] = Some(float64(dow))
		values["is_weekend"] = weekend
		values["day_focus_minutes"] = Some(day)
		values["night_focus_minutes"] = Some(night)
		values["error_count"] = Some(cur.ErrorCount)
		values["error_fix_time_min"] = Some(cur.ErrorFixMinutes)
		values["idle_minutes"] = Some(cur.IdleMinutes)
		values["idle_sessions"] = Some(cur.IdleSessions)
		values["avg_idle_session_min"] = Some(cur.AvgIdleSessionMinutes)
		values["night_ratio"] = Some(night / (cur.FocusMinutes + 1))
		values["error_pressure"] = Some(cur.ErrorFixMinutes / (cur.FocusMinutes + 1))
		values["focus_rollmean_7"] = w.RollingMean("focus", idx, rollingWindow)
		values["idle_rollmean_7"] = w.RollingMean("idle", idx, rollingWindow)
		values["errorfix_rollmean_7"] = w.RollingMean("errorfix", idx, rollingWindow)
		for k := 1; k <= rollingWindow; k++ {
			values[fmt.Sprintf("focus_lag_%d", k)] = w.Lag("focus", idx, k)
			values[fmt.Sprintf("idle_lag_%d", k)] = w.Lag("idle", idx, k)
			values[fmt.Sprintf("errorfix_lag_%d", k)] = w.Lag("errorfix", idx, k)
		}
	}
	return FeatureRow{set: set, values: values}
}

// RecencyWeightedFocus is the fallback estimator: a mean of the last seven focus
// values weighted 1..n from oldest to newest. The second return is false on an empty buffer.
func (w *FeatureWindow) RecencyWeightedFocus() (float64, bool) {
	n := len(w.records)
	if n == 0 {
		return 0, false
	}
	start := max(0, n-rollingWindow)
	var num, den float64
	for i, r := range w.records[start:] {
		weight := float64(i + 1)
		num += weight * r.FocusMinutes
		den += weight
	}
	return num / den, true
}
