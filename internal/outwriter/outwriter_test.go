package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outDay = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func textConfig() *contract.Config {
	return &contract.Config{Output: schema.TextOut, Precision: 1, Width: 160}
}

func sampleForecast() schema.ForecastResult {
	return schema.ForecastResult{
		UserID:       "ana",
		ModelVersion: "xgb-1",
		FeatureSet:   schema.FullFeatureSet,
		HorizonDays:  2,
		Points: []schema.ForecastPoint{
			{Date: outDay, PredictedMinutes: 125, LowerBound: 110, UpperBound: 140},
			{Date: outDay.AddDate(0, 0, 1), PredictedMinutes: 45, LowerBound: 30, UpperBound: 60, Fallback: true},
		},
		Insights: &schema.ForecastInsights{
			Trend:              schema.TrendDeclining,
			RiskLevel:          schema.RiskHigh,
			IntervalConfidence: schema.ConfidenceMedium,
			BestWindow:         schema.DayWindow,
			RecentAvgFocus:     120,
			PredictedAvg:       85,
			Summary:            "Next 2 days look lower than your recent pattern.",
		},
	}
}

func samplePlan() schema.PlanSchedule {
	warnDay := outDay.AddDate(0, 0, 1)
	return schema.PlanSchedule{
		PlanID:              "01JABCDEF",
		UserID:              "ana",
		Start:               outDay,
		End:                 outDay.AddDate(0, 0, 1),
		TargetHours:         6,
		IsFeasible:          true,
		FeasibilityScore:    100,
		TotalAvailableHours: 7.5,
		Confidence:          schema.ConfidenceScore{Overall: 0.72, Level: schema.ConfidenceMedium},
		BestHours:           schema.BestHours{RecommendedTime: "morning", Hours: "8AM - 12PM", Reason: "Errors stay low."},
		Days: []schema.DayAllocation{
			{
				Date: outDay, PredictedFocusMinutes: 180, AvailableHours: 4.5, AllocatedHours: 3.5,
				ProductivityLevel: schema.ProductivityHigh, UnscheduledHours: 1.5, Note: "Exceeds work window",
				HourlySchedule: []schema.HourSlot{
					{Hour: 9, TimeRange: "9-10am", Task: schema.DeepWorkTask, DurationHours: 1},
					{Hour: 10, TimeRange: "10-11am", Task: schema.CodeReviewTask, DurationHours: 1},
				},
			},
			{Date: warnDay, PredictedFocusMinutes: 90, AvailableHours: 3, AllocatedHours: 2.5, ProductivityLevel: schema.ProductivityLow, Note: "Low focus expected"},
		},
		Warnings: []schema.Warning{
			{Type: schema.LowFocusWarning, Severity: schema.SeverityMedium, Date: &warnDay, Message: "Focus drops on Tuesday"},
		},
	}
}

func TestWriteForecastTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)
	require.NoError(t, writeForecastTable(&buf, sampleForecast(), cfg, fmtFloat))

	out := buf.String()
	assert.Contains(t, out, "Focus forecast for ana (xgb-1, 2 days)")
	assert.Contains(t, out, "Mon 2026-10-19")
	assert.Contains(t, out, "2h 05m")
	assert.Contains(t, out, "110.0")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "Trend: declining | Risk: High | Interval confidence: Medium | Best window: day")
	assert.Contains(t, out, "Next 2 days look lower")
}

func TestWriteForecastTableBaseline(t *testing.T) {
	var buf bytes.Buffer
	result := sampleForecast()
	result.Baseline = true
	result.Insights = nil
	fmtFloat, _ := createFormatters(0)
	require.NoError(t, writeForecastTable(&buf, result, textConfig(), fmtFloat))
	assert.Contains(t, buf.String(), "baseline")
	assert.NotContains(t, buf.String(), "Trend:")
}

func TestWriteForecastCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)
	require.NoError(t, writeForecastCSV(&buf, sampleForecast(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "predicted_minutes", records[0][2])
	assert.Equal(t, []string{"ana", "2026-10-19", "125", "110.00", "140.00", "model", "xgb-1", "2"}, records[1])
	assert.Equal(t, "fallback", records[2][5])
}

func TestWriteForecastResultFiles(t *testing.T) {
	dir := t.TempDir()

	jsonFile := filepath.Join(dir, "forecast.json")
	require.NoError(t, WriteForecastResult(sampleForecast(), &contract.Config{Output: schema.JSONOut, OutputFile: jsonFile}))
	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	var decoded schema.ForecastResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ana", decoded.UserID)
	assert.Len(t, decoded.Points, 2)

	parquetFile := filepath.Join(dir, "forecast.parquet")
	require.NoError(t, WriteForecastResult(sampleForecast(), &contract.Config{Output: schema.ParquetOut, OutputFile: parquetFile}))
	info, err := os.Stat(parquetFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	err = WriteForecastResult(sampleForecast(), &contract.Config{Output: schema.ParquetOut})
	assert.ErrorContains(t, err, "--output-file")
}

func TestWritePlanTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()
	fmtFloat, _ := createFormatters(cfg.Precision)
	plan := samplePlan()
	plan.SkippedDates = []time.Time{outDay.AddDate(0, 0, -1)}
	require.NoError(t, writePlanTable(&buf, plan, cfg, fmtFloat))

	out := buf.String()
	assert.Contains(t, out, "Plan 01JABCDEF for ana: 2026-10-19 to 2026-10-20")
	assert.Contains(t, out, "Target 6.0 h, available 7.5 h, feasibility 100.0% (feasible)")
	assert.Contains(t, out, "Confidence: Medium (0.7)")
	assert.Contains(t, out, "9-10am deep_work, 10-11am code_review")
	assert.Contains(t, out, "Low focus expected")
	assert.Contains(t, out, "Exceeds work window")
	assert.Contains(t, out, "Skipped (already in history): 2026-10-18")
	assert.Contains(t, out, "Warnings")
	assert.Contains(t, out, "Focus drops on Tuesday")
}

func TestWritePlanTableWithoutWarnings(t *testing.T) {
	var buf bytes.Buffer
	plan := samplePlan()
	plan.Warnings = nil
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writePlanTable(&buf, plan, textConfig(), fmtFloat))
	assert.NotContains(t, buf.String(), "Warnings")
}

func TestWritePlanCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writePlanCSV(&buf, samplePlan(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"01JABCDEF", "ana", "2026-10-19", "180", "4.5", "3.5", "high", "2.0", "1.5", "Exceeds work window", "true", "medium"}, records[1])
	assert.Equal(t, "0.0", records[2][7])
	assert.Equal(t, "0.0", records[2][8])
}

func TestWritePlanResultRejectsParquet(t *testing.T) {
	err := WritePlanResult(samplePlan(), &contract.Config{Output: schema.ParquetOut})
	assert.Error(t, err)
}

func TestFormatSchedule(t *testing.T) {
	assert.Equal(t, "-", formatSchedule(nil))
	assert.Equal(t, "1-2pm debugging", formatSchedule([]schema.HourSlot{{TimeRange: "1-2pm", Task: schema.DebuggingTask}}))
}

func TestWriteExplanation(t *testing.T) {
	v := 42.0
	exp := schema.Explanation{
		UserID:       "ana",
		ModelVersion: "xgb-1",
		AsOf:         outDay,
		GlobalImportance: []schema.FeatureImpact{
			{Feature: "focus_lag_1", Importance: 1},
			{Feature: "idle_minutes", Importance: 0.5},
		},
		LocalImpacts: []schema.FeatureImpact{
			{Feature: "focus_lag_1", Importance: 1, Value: &v, Impact: 42},
			{Feature: "is_weekend", Importance: 0.1},
		},
	}
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeExplanationTable(&buf, exp, textConfig(), fmtFloat))
	out := buf.String()
	assert.Contains(t, out, "as of 2026-10-19")
	assert.Contains(t, out, "idle_minutes")
	assert.Contains(t, out, "Impact on the latest day")
	assert.Contains(t, out, "42.0")

	buf.Reset()
	require.NoError(t, writeExplanationCSV(&buf, exp, fmtFloat))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "global", records[1][2])
	assert.Equal(t, []string{"ana", "xgb-1", "local", "focus_lag_1", "42.0", "1.0", "42.0"}, records[3])
	assert.Equal(t, "", records[4][4])
}

func TestWriteBudget(t *testing.T) {
	plan := schema.BudgetPlan{
		UserID:               "ana",
		Period:               schema.WeekPeriod,
		HorizonDays:          2,
		TargetHours:          10,
		SuggestedTargetHours: 8,
		Confidence:           schema.ConfidenceHigh,
		BufferPercent:        5,
		CapacityHours:        8,
		BestWindow:           schema.NightWindow,
		Days: []schema.BudgetDay{
			{Date: outDay, Hours: 4, Window: schema.NightWindow},
			{Date: outDay.AddDate(0, 0, 1), Hours: 4, Window: schema.NightWindow},
		},
		UnallocatedMinutes: 120,
		Reason:             "A realistic target is about 8.0 hours.",
		ModelVersion:       "xgb-1",
	}
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeBudgetTable(&buf, plan, textConfig(), fmtFloat))
	out := buf.String()
	assert.Contains(t, out, "Budget for ana: 10.0 h over a week")
	assert.Contains(t, out, "5% buffer")
	assert.Contains(t, out, "not feasible")
	assert.Contains(t, out, "2h 00m of the target could not be placed")

	buf.Reset()
	require.NoError(t, writeBudgetCSV(&buf, plan, fmtFloat))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ana", "week", "2026-10-19", "4.0", "night", "false", "5", "xgb-1"}, records[1])
}

func TestWriteHistoryCSVRoundTripsHeader(t *testing.T) {
	records := []schema.DailyRecord{{Date: outDay, FocusMinutes: 120.5, IdleMinutes: 30, FileSwitchRate: 0.25}}
	var buf bytes.Buffer
	require.NoError(t, writeHistoryCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, iocache.DailyCSVHeader, rows[0])
	assert.Equal(t, "2026-10-19", rows[1][0])
	assert.Equal(t, "120.5", rows[1][1])
	assert.Equal(t, "0.25", rows[1][9])
}

func TestWriteHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	records := []schema.DailyRecord{{Date: outDay, FocusMinutes: 120, DayFocusMinutes: 80, NightFocusMinutes: 40}}
	require.NoError(t, writeHistoryTable(&buf, "ana", records, textConfig(), fmtFloat))
	assert.Contains(t, buf.String(), "History for ana (1 days)")
	assert.Contains(t, buf.String(), "120.0")
}

func TestWriteModel(t *testing.T) {
	meta := schema.ModelMetadata{
		ModelVersion:   "xgb-1",
		ModelType:      "xgboost",
		Features:       []string{"focus_lag_1", "idle_minutes"},
		P90AbsResidual: 32.5,
		TrainRows:      300,
	}
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeModelTable(&buf, meta, textConfig(), fmtFloat))
	out := buf.String()
	assert.Contains(t, out, "Model xgb-1")
	assert.Contains(t, out, "32.5")
	assert.Contains(t, out, "Feature order: focus_lag_1, idle_minutes")

	buf.Reset()
	require.NoError(t, writeModelCSV(&buf, meta, fmtFloat))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"property", "value"}, rows[0])
	assert.Equal(t, []string{"Cutoff date", "-"}, rows[8])
	assert.Equal(t, []string{"Feature order", "focus_lag_1;idle_minutes"}, rows[len(rows)-1])
}

func TestWriteStoreStatusResult(t *testing.T) {
	status := schema.StoreStatus{
		History:  schema.HistoryStatus{Backend: "sqlite", Connected: true, TotalUsers: 2, TotalDays: 30},
		Forecast: schema.ForecastStoreStatus{Backend: "none"},
	}
	file := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, WriteStoreStatusResult(status, &contract.Config{Output: schema.JSONOut, OutputFile: file}))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"total_days": 30`))

	err = WriteStoreStatusResult(status, &contract.Config{Output: schema.CSVOut})
	assert.Error(t, err)
}

func TestWriteTitleAndLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTitle(&buf, &contract.Config{UseEmojis: true}, "📈", "Title"))
	assert.Equal(t, "📈 Title\n", buf.String())

	buf.Reset()
	require.NoError(t, writeTitle(&buf, &contract.Config{}, "📈", "Title"))
	assert.Equal(t, "Title\n", buf.String())

	assert.Equal(t, "High", levelLabel(&contract.Config{}, "high"))
	assert.Equal(t, "Low", severityLabel(&contract.Config{}, "low"))
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestGetMaxMessageWidthAndTruncate(t *testing.T) {
	assert.Equal(t, 90, GetMaxMessageWidth(&contract.Config{Width: 300}, 40))
	assert.Equal(t, 20, GetMaxMessageWidth(&contract.Config{Width: 50}, 40))
	assert.Equal(t, 50, GetMaxMessageWidth(&contract.Config{Width: 100}, 40))

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestNewOutWriter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "model.json")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteModel(schema.ModelMetadata{ModelVersion: "v1"}, &contract.Config{Output: schema.JSONOut, OutputFile: file}))
	_, err := os.Stat(file)
	assert.NoError(t, err)
}
