package iocache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// DailyCSVHeader is the column layout of daily metrics CSV files, used by import and export.
var DailyCSVHeader = []string{
	"date", "focus_minutes", "idle_minutes", "idle_sessions", "avg_idle_session_minutes",
	"error_count", "error_fix_minutes", "day_focus_minutes", "night_focus_minutes",
	"file_switch_rate", "error_density",
}

// SessionCSVHeader is the column layout of focus session CSV files.
var SessionCSVHeader = []string{"start", "duration_minutes"}

// columnIndex maps required header names to positions. Extra columns are ignored.
func columnIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column '%s'", name)
		}
	}
	return index, nil
}

// ReadDailyCSV parses daily metrics with a DailyCSVHeader header row.
// Only date and focus_minutes are required; other missing columns read as zero.
func ReadDailyCSV(r io.Reader) ([]schema.DailyRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index, err := columnIndex(header, []string{"date", "focus_minutes"})
	if err != nil {
		return nil, err
	}

	var records []schema.DailyRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseDailyRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseDailyRow(row []string, index map[string]int) (schema.DailyRecord, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	date, err := schema.ParseDate(field("date"))
	if err != nil {
		return schema.DailyRecord{}, err
	}
	rec := schema.DailyRecord{Date: date}
	targets := map[string]*float64{
		"focus_minutes":            &rec.FocusMinutes,
		"idle_minutes":             &rec.IdleMinutes,
		"idle_sessions":            &rec.IdleSessions,
		"avg_idle_session_minutes": &rec.AvgIdleSessionMinutes,
		"error_count":              &rec.ErrorCount,
		"error_fix_minutes":        &rec.ErrorFixMinutes,
		"day_focus_minutes":        &rec.DayFocusMinutes,
		"night_focus_minutes":      &rec.NightFocusMinutes,
		"file_switch_rate":         &rec.FileSwitchRate,
		"error_density":            &rec.ErrorDensity,
	}
	for name, target := range targets {
		raw := field(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return schema.DailyRecord{}, fmt.Errorf("invalid %s '%s'", name, raw)
		}
		if v < 0 {
			return schema.DailyRecord{}, fmt.Errorf("%s cannot be negative (received %s)", name, raw)
		}
		*target = v
	}
	return rec, nil
}

// ReadSessionsCSV parses focus sessions with a SessionCSVHeader header row.
// Start times are RFC 3339.
func ReadSessionsCSV(r io.Reader) ([]schema.FocusSession, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index, err := columnIndex(header, SessionCSVHeader)
	if err != nil {
		return nil, err
	}

	var sessions []schema.FocusSession
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(row[index["start"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid start: %w", line, err)
		}
		duration, err := strconv.ParseFloat(strings.TrimSpace(row[index["duration_minutes"]]), 64)
		if err != nil || duration <= 0 {
			return nil, fmt.Errorf("line %d: duration_minutes must be a positive number", line)
		}
		sessions = append(sessions, schema.FocusSession{Start: start.UTC(), DurationMinutes: duration})
	}
	return sessions, nil
}
