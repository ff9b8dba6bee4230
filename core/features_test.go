package core

import (
	"testing"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	v, ok := Some(0).Get()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, "0", Some(0).String())

	assert.False(t, Missing().Present())
	assert.Equal(t, "missing", Missing().String())
	assert.False(t, Value{}.Present())
}

func TestFeatureSetFor(t *testing.T) {
	set, err := FeatureSetFor(schema.FullFeatureSet)
	require.NoError(t, err)
	assert.Equal(t, 20, set.MinHistory)
	assert.Len(t, set.Names, 14+3*7)
	assert.Equal(t, "dow", set.Names[0])
	assert.Equal(t, "errorfix_lag_7", set.Names[len(set.Names)-1])

	set, err = FeatureSetFor("")
	require.NoError(t, err)
	assert.Equal(t, schema.FullFeatureSet, set.Version)

	set, err = FeatureSetFor(schema.LegacyFeatureSet)
	require.NoError(t, err)
	assert.Equal(t, 10, set.MinHistory)
	assert.True(t, set.Has("focus_rolling_mean_7"))
	assert.False(t, set.Has("focus_rollmean_7"))

	_, err = FeatureSetFor("v3")
	assert.Error(t, err)
}

func TestFeatureWindowLag(t *testing.T) {
	w := NewFeatureWindow(makeHistory(5, fromSlice([]float64{10, 20, 30, 40, 50})))

	tests := []struct {
		name    string
		idx, n  int
		want    float64
		present bool
	}{
		{"one day back", 4, 1, 40, true},
		{"to buffer start", 4, 4, 10, true},
		{"before buffer start", 4, 5, 0, false},
		{"zero lag", 2, 0, 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := w.Lag("focus", tt.idx, tt.n).Get()
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestFeatureWindowRollingMean(t *testing.T) {
	w := NewFeatureWindow(makeHistory(8, fromSlice([]float64{10, 20, 30, 40, 50, 60, 70, 80})))

	v, ok := w.RollingMean("focus", 7, 7).Get()
	require.True(t, ok)
	assert.InDelta(t, 40.0, v, 1e-9)

	v, ok = w.RollingMean("focus", 8, 7).Get()
	require.True(t, ok)
	assert.InDelta(t, 50.0, v, 1e-9)

	assert.False(t, w.RollingMean("focus", 6, 7).Present(), "fewer than seven prior days")
	assert.False(t, w.RollingMean("focus", 9, 7).Present(), "past the buffer end")
}

func TestFeatureWindowCopiesHistory(t *testing.T) {
	history := makeHistory(3, constant(60))
	w := NewFeatureWindow(history)
	w.Append(schema.DailyRecord{Date: day0, FocusMinutes: 1, Carried: true})

	assert.Len(t, history, 3)
	assert.Equal(t, 4, w.Len())
	assert.True(t, w.Last().Carried)

	records := w.Records()
	records[0].FocusMinutes = -1
	assert.Equal(t, 60.0, w.Records()[0].FocusMinutes)
}

func TestRowFullFeatures(t *testing.T) {
	history := makeHistory(8, constant(100))
	history[7].DayFocusMinutes = 0
	history[7].NightFocusMinutes = 0
	w := NewFeatureWindow(history)

	row := w.Row(FullFeatures, 7, day0) // predicting a Monday
	assert.Equal(t, FullFeatures.Names, row.Names())

	get := func(name string) float64 {
		v, ok := row.Get(name).Get()
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, 0.0, get("dow"))
	assert.Equal(t, 0.0, get("is_weekend"))
	assert.InDelta(t, 70.0, get("day_focus_minutes"), 1e-9)
	assert.InDelta(t, 30.0, get("night_focus_minutes"), 1e-9)
	assert.InDelta(t, 30.0/101.0, get("night_ratio"), 1e-9)
	assert.InDelta(t, 20.0/101.0, get("error_pressure"), 1e-9)
	assert.InDelta(t, 100.0, get("focus_rollmean_7"), 1e-9)
	assert.Equal(t, 100.0, get("focus_lag_7"))

	vector, complete := row.Project(FullFeatures.Names)
	assert.True(t, complete)
	assert.Len(t, vector, len(FullFeatures.Names))
	assert.Empty(t, row.MissingNames(FullFeatures.Names))
}

func TestRowWeekendAndMissing(t *testing.T) {
	w := NewFeatureWindow(makeHistory(3, constant(90)))
	saturday := day0.AddDate(0, 0, 5)

	row := w.Row(FullFeatures, 2, saturday)
	v, _ := row.Get("dow").Get()
	assert.Equal(t, 5.0, v)
	v, _ = row.Get("is_weekend").Get()
	assert.Equal(t, 1.0, v)

	_, complete := row.Project(FullFeatures.Names)
	assert.False(t, complete)
	missing := row.MissingNames(FullFeatures.Names)
	assert.Contains(t, missing, "focus_lag_3")
	assert.Contains(t, missing, "focus_rollmean_7")
	assert.NotContains(t, missing, "focus_lag_2")

	_, complete = row.Project([]string{"dow", "not_a_feature"})
	assert.False(t, complete, "names outside the set are missing")
}

func TestRowLegacyFeatures(t *testing.T) {
	w := NewFeatureWindow(makeHistory(10, constant(80)))
	row := w.Row(LegacyFeatures, 9, day0.AddDate(0, 0, 2))

	vector, complete := row.Project(LegacyFeatures.Names)
	require.True(t, complete)
	assert.Equal(t, 2.0, vector[0])
	assert.Equal(t, 80.0, vector[2])
	assert.Equal(t, 1.2, vector[4])
	assert.Equal(t, 2.5, vector[5])
	assert.False(t, row.Get("night_ratio").Present())
}

func TestRowOutOfRange(t *testing.T) {
	w := NewFeatureWindow(makeHistory(2, constant(80)))
	row := w.Row(FullFeatures, 5, day0)
	assert.Len(t, row.MissingNames(FullFeatures.Names), len(FullFeatures.Names))
}

func TestRecencyWeightedFocus(t *testing.T) {
	values := []float64{100, 110, 90, 120, 130, 115, 140}
	w := NewFeatureWindow(makeHistory(len(values), fromSlice(values)))
	v, ok := w.RecencyWeightedFocus()
	require.True(t, ok)
	assert.InDelta(t, weightedMean(values), v, 1e-9)

	longer := []float64{500, 500, 10, 20, 30, 40, 50, 60, 70}
	w = NewFeatureWindow(makeHistory(len(longer), fromSlice(longer)))
	v, _ = w.RecencyWeightedFocus()
	assert.InDelta(t, weightedMean(longer[2:]), v, 1e-9, "only the last seven count")

	_, ok = NewFeatureWindow(nil).RecencyWeightedFocus()
	assert.False(t, ok)
}
