package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Table names for measured telemetry.
const (
	dailyMetricsTable  = "busybee_daily_metrics"
	focusSessionsTable = "busybee_focus_sessions"
)

// dailyColumns lists the busybee_daily_metrics columns in insert order.
var dailyColumns = []string{
	"user_id", "metric_date", "focus_minutes", "idle_minutes", "idle_sessions",
	"avg_idle_session_minutes", "error_count", "error_fix_minutes",
	"day_focus_minutes", "night_focus_minutes", "file_switch_rate", "error_density", "updated_at",
}

// sessionColumns lists the busybee_focus_sessions columns in insert order.
var sessionColumns = []string{"user_id", "start_unix", "duration_minutes"}

// ErrCarriedRecord is returned when a synthetic roll-forward record is imported as history.
var ErrCarriedRecord = errors.New("carried records cannot be stored as history")

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled history
		return &HistoryStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	queries := map[string]string{
		dailyMetricsTable:  getCreateDailyMetricsQuery(backend),
		focusSessionsTable: getCreateFocusSessionsQuery(backend),
	}
	if err := createTables(db, queries, []string{dailyMetricsTable, focusSessionsTable}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// getCreateDailyMetricsQuery returns the CREATE TABLE query for busybee_daily_metrics.
func getCreateDailyMetricsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(dailyMetricsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id VARCHAR(128) NOT NULL,
				metric_date VARCHAR(10) NOT NULL,
				focus_minutes DOUBLE NOT NULL,
				idle_minutes DOUBLE NOT NULL,
				idle_sessions DOUBLE NOT NULL,
				avg_idle_session_minutes DOUBLE NOT NULL,
				error_count DOUBLE NOT NULL,
				error_fix_minutes DOUBLE NOT NULL,
				day_focus_minutes DOUBLE NOT NULL,
				night_focus_minutes DOUBLE NOT NULL,
				file_switch_rate DOUBLE NOT NULL,
				error_density DOUBLE NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				PRIMARY KEY (user_id, metric_date)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				metric_date VARCHAR(10) NOT NULL,
				focus_minutes DOUBLE PRECISION NOT NULL,
				idle_minutes DOUBLE PRECISION NOT NULL,
				idle_sessions DOUBLE PRECISION NOT NULL,
				avg_idle_session_minutes DOUBLE PRECISION NOT NULL,
				error_count DOUBLE PRECISION NOT NULL,
				error_fix_minutes DOUBLE PRECISION NOT NULL,
				day_focus_minutes DOUBLE PRECISION NOT NULL,
				night_focus_minutes DOUBLE PRECISION NOT NULL,
				file_switch_rate DOUBLE PRECISION NOT NULL,
				error_density DOUBLE PRECISION NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, metric_date)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				metric_date TEXT NOT NULL,
				focus_minutes REAL NOT NULL,
				idle_minutes REAL NOT NULL,
				idle_sessions REAL NOT NULL,
				avg_idle_session_minutes REAL NOT NULL,
				error_count REAL NOT NULL,
				error_fix_minutes REAL NOT NULL,
				day_focus_minutes REAL NOT NULL,
				night_focus_minutes REAL NOT NULL,
				file_switch_rate REAL NOT NULL,
				error_density REAL NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (user_id, metric_date)
			);
		`, quotedTableName)
	}
}

// getCreateFocusSessionsQuery returns the CREATE TABLE query for busybee_focus_sessions.
func getCreateFocusSessionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(focusSessionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id VARCHAR(128) NOT NULL,
				start_unix BIGINT NOT NULL,
				duration_minutes DOUBLE NOT NULL,
				PRIMARY KEY (user_id, start_unix)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				start_unix BIGINT NOT NULL,
				duration_minutes DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (user_id, start_unix)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				start_unix INTEGER NOT NULL,
				duration_minutes REAL NOT NULL,
				PRIMARY KEY (user_id, start_unix)
			);
		`, quotedTableName)
	}
}

// FetchHistory returns the most recent limitDays measured days of a user, oldest first.
// A non-positive limit returns every stored day.
func (hs *HistoryStoreImpl) FetchHistory(ctx context.Context, userID string, limitDays int) ([]schema.DailyRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT metric_date, focus_minutes, idle_minutes, idle_sessions, avg_idle_session_minutes,
		error_count, error_fix_minutes, day_focus_minutes, night_focus_minutes, file_switch_rate, error_density
		FROM %s WHERE user_id = %s ORDER BY metric_date DESC`,
		quoteTableName(dailyMetricsTable, hs.backend), placeholders(hs.backend, 1))
	if limitDays > 0 {
		query += fmt.Sprintf(" LIMIT %d", limitDays)
	}

	rows, err := hs.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.DailyRecord
	for rows.Next() {
		var r schema.DailyRecord
		var date string
		if err := rows.Scan(&date, &r.FocusMinutes, &r.IdleMinutes, &r.IdleSessions, &r.AvgIdleSessionMinutes,
			&r.ErrorCount, &r.ErrorFixMinutes, &r.DayFocusMinutes, &r.NightFocusMinutes, &r.FileSwitchRate, &r.ErrorDensity); err != nil {
			return nil, fmt.Errorf("failed to scan daily metrics: %w", err)
		}
		if r.Date, err = schema.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse metric_date: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily metrics: %w", err)
	}

	// Reverse into chronological order
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// FetchSessions returns the focus sessions of a user started within the last days, oldest first.
// A non-positive window returns every stored session.
func (hs *HistoryStoreImpl) FetchSessions(ctx context.Context, userID string, days int) ([]schema.FocusSession, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	var since int64
	if days > 0 {
		since = hs.now().AddDate(0, 0, -days).Unix()
	}
	query := fmt.Sprintf(`SELECT start_unix, duration_minutes FROM %s WHERE user_id = %s AND start_unix >= %s ORDER BY start_unix`,
		quoteTableName(focusSessionsTable, hs.backend), placeholdersFrom(hs.backend, 1, 1), placeholdersFrom(hs.backend, 2, 1))

	rows, err := hs.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for %s: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []schema.FocusSession
	for rows.Next() {
		var start int64
		var s schema.FocusSession
		if err := rows.Scan(&start, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan focus session: %w", err)
		}
		s.Start = time.Unix(start, 0).UTC()
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating focus sessions: %w", err)
	}
	return sessions, nil
}

// ImportDaily upserts measured records keyed by (user, date) in one transaction.
func (hs *HistoryStoreImpl) ImportDaily(ctx context.Context, userID string, records []schema.DailyRecord) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, errors.New("user id is required")
	}
	for _, r := range records {
		if r.Carried {
			return 0, fmt.Errorf("%w: %s", ErrCarriedRecord, schema.FormatDate(r.Date))
		}
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	query := upsertQuery(dailyMetricsTable, hs.backend, dailyColumns, []string{"user_id", "metric_date"})
	updatedAt := formatTime(hs.now(), hs.backend)

	return hs.inTx(ctx, query, len(records), func(i int) []any {
		r := records[i]
		return []any{
			userID, schema.FormatDate(r.Date), r.FocusMinutes, r.IdleMinutes, r.IdleSessions,
			r.AvgIdleSessionMinutes, r.ErrorCount, r.ErrorFixMinutes,
			r.DayFocusMinutes, r.NightFocusMinutes, r.FileSwitchRate, r.ErrorDensity, updatedAt,
		}
	})
}

// ImportSessions upserts focus sessions keyed by (user, start) in one transaction.
func (hs *HistoryStoreImpl) ImportSessions(ctx context.Context, userID string, sessions []schema.FocusSession) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, errors.New("user id is required")
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	query := upsertQuery(focusSessionsTable, hs.backend, sessionColumns, []string{"user_id", "start_unix"})
	return hs.inTx(ctx, query, len(sessions), func(i int) []any {
		return []any{userID, sessions[i].Start.Unix(), sessions[i].DurationMinutes}
	})
}

// inTx executes a prepared statement n times inside a transaction.
func (hs *HistoryStoreImpl) inTx(ctx context.Context, query string, n int, argsAt func(int) []any) (int, error) {
	if n == 0 {
		return 0, nil
	}

	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		if _, err := stmt.ExecContext(ctx, argsAt(i)...); err != nil {
			return 0, fmt.Errorf("failed to import row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return n, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	daily := quoteTableName(dailyMetricsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(DISTINCT user_id), COUNT(*) FROM %s", daily))
	if err := row.Scan(&status.TotalUsers, &status.TotalDays); err != nil {
		return status, fmt.Errorf("failed to get history totals: %w", err)
	}

	if status.TotalDays > 0 {
		var oldest, latest string
		row = hs.db.QueryRow(fmt.Sprintf("SELECT MIN(metric_date), MAX(metric_date) FROM %s", daily))
		if err := row.Scan(&oldest, &latest); err != nil {
			return status, fmt.Errorf("failed to get history range: %w", err)
		}
		var err error
		if status.OldestEntryDate, err = schema.ParseDate(oldest); err != nil {
			return status, fmt.Errorf("failed to parse oldest date: %w", err)
		}
		if status.LatestEntryDate, err = schema.ParseDate(latest); err != nil {
			return status, fmt.Errorf("failed to parse latest date: %w", err)
		}
	}

	sizes, err := tableCounts(hs.db, hs.backend, dailyMetricsTable, focusSessionsTable)
	if err != nil {
		return status, err
	}
	status.TableSizes = sizes
	status.TotalSessions = int(sizes[focusSessionsTable])

	return status, nil
}
