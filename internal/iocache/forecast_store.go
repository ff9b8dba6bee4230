package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Table names for forecast tracking.
const (
	forecastsTable     = "busybee_forecasts"
	plansTable         = "busybee_plans"
	modelRegistryTable = "busybee_model_registry"
)

var (
	forecastColumns = []string{
		"user_id", "target_date", "model_version", "horizon_days",
		"predicted_minutes", "lower_bound", "upper_bound", "fallback", "created_at",
	}
	forecastKeys = []string{"user_id", "target_date", "model_version", "horizon_days"}

	planColumns = []string{
		"plan_id", "user_id", "start_date", "end_date", "target_hours",
		"is_feasible", "feasibility_score", "model_version", "payload", "created_at",
	}

	modelColumns = []string{
		"model_version", "model_type", "feature_count", "p90_abs_residual", "mae_test",
		"train_rows", "test_rows", "cutoff_date", "registered_at",
	}
)

// ForecastStoreImpl implements the ForecastStore interface.
type ForecastStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.ForecastStore = &ForecastStoreImpl{} // Compile-time check

// NewForecastStore creates a new ForecastStore with the specified backend.
func NewForecastStore(backend schema.DatabaseBackend, connStr string) (contract.ForecastStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &ForecastStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr, GetForecastDBFilePath())
	if err != nil {
		return nil, err
	}

	queries := map[string]string{
		forecastsTable:     getCreateForecastsQuery(backend),
		plansTable:         getCreatePlansQuery(backend),
		modelRegistryTable: getCreateModelRegistryQuery(backend),
	}
	if err := createTables(db, queries, []string{forecastsTable, plansTable, modelRegistryTable}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create forecast tables: %w", err)
	}

	return &ForecastStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// getCreateForecastsQuery returns the CREATE TABLE query for busybee_forecasts.
func getCreateForecastsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(forecastsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id VARCHAR(128) NOT NULL,
				target_date VARCHAR(10) NOT NULL,
				model_version VARCHAR(128) NOT NULL,
				horizon_days INT NOT NULL,
				predicted_minutes INT NOT NULL,
				lower_bound DOUBLE NOT NULL,
				upper_bound DOUBLE NOT NULL,
				fallback BOOLEAN NOT NULL,
				created_at DATETIME(6) NOT NULL,
				PRIMARY KEY (user_id, target_date, model_version, horizon_days)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				target_date VARCHAR(10) NOT NULL,
				model_version TEXT NOT NULL,
				horizon_days INT NOT NULL,
				predicted_minutes INT NOT NULL,
				lower_bound DOUBLE PRECISION NOT NULL,
				upper_bound DOUBLE PRECISION NOT NULL,
				fallback BOOLEAN NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, target_date, model_version, horizon_days)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				target_date TEXT NOT NULL,
				model_version TEXT NOT NULL,
				horizon_days INTEGER NOT NULL,
				predicted_minutes INTEGER NOT NULL,
				lower_bound REAL NOT NULL,
				upper_bound REAL NOT NULL,
				fallback INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				PRIMARY KEY (user_id, target_date, model_version, horizon_days)
			);
		`, quotedTableName)
	}
}

// getCreatePlansQuery returns the CREATE TABLE query for busybee_plans.
func getCreatePlansQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(plansTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				plan_id VARCHAR(26) PRIMARY KEY,
				user_id VARCHAR(128) NOT NULL,
				start_date VARCHAR(10) NOT NULL,
				end_date VARCHAR(10) NOT NULL,
				target_hours DOUBLE NOT NULL,
				is_feasible BOOLEAN NOT NULL,
				feasibility_score DOUBLE NOT NULL,
				model_version VARCHAR(128) NOT NULL,
				payload LONGTEXT NOT NULL,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				plan_id VARCHAR(26) PRIMARY KEY,
				user_id TEXT NOT NULL,
				start_date VARCHAR(10) NOT NULL,
				end_date VARCHAR(10) NOT NULL,
				target_hours DOUBLE PRECISION NOT NULL,
				is_feasible BOOLEAN NOT NULL,
				feasibility_score DOUBLE PRECISION NOT NULL,
				model_version TEXT NOT NULL,
				payload TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				plan_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				target_hours REAL NOT NULL,
				is_feasible INTEGER NOT NULL,
				feasibility_score REAL NOT NULL,
				model_version TEXT NOT NULL,
				payload TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateModelRegistryQuery returns the CREATE TABLE query for busybee_model_registry.
func getCreateModelRegistryQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(modelRegistryTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_version VARCHAR(128) PRIMARY KEY,
				model_type VARCHAR(64) NOT NULL,
				feature_count INT NOT NULL,
				p90_abs_residual DOUBLE NOT NULL,
				mae_test DOUBLE NOT NULL,
				train_rows INT NOT NULL,
				test_rows INT NOT NULL,
				cutoff_date VARCHAR(10),
				registered_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_version TEXT PRIMARY KEY,
				model_type TEXT NOT NULL,
				feature_count INT NOT NULL,
				p90_abs_residual DOUBLE PRECISION NOT NULL,
				mae_test DOUBLE PRECISION NOT NULL,
				train_rows INT NOT NULL,
				test_rows INT NOT NULL,
				cutoff_date VARCHAR(10),
				registered_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_version TEXT PRIMARY KEY,
				model_type TEXT NOT NULL,
				feature_count INTEGER NOT NULL,
				p90_abs_residual REAL NOT NULL,
				mae_test REAL NOT NULL,
				train_rows INTEGER NOT NULL,
				test_rows INTEGER NOT NULL,
				cutoff_date TEXT,
				registered_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// SaveForecast upserts every point of a run keyed by (user, date, model version, horizon).
// All points of one call share a created_at so LatestForecast can read the run back.
func (fs *ForecastStoreImpl) SaveForecast(ctx context.Context, userID string, points []schema.ForecastPoint, horizonDays int, modelVersion string) error {
	if fs.backend == schema.NoneBackend || fs.db == nil || len(points) == 0 {
		return nil
	}

	tx, err := fs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertQuery(forecastsTable, fs.backend, forecastColumns, forecastKeys))
	if err != nil {
		return fmt.Errorf("failed to prepare forecast upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	createdAt := formatTime(fs.now(), fs.backend)
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, userID, schema.FormatDate(p.Date), modelVersion, horizonDays,
			p.PredictedMinutes, p.LowerBound, p.UpperBound, p.Fallback, createdAt); err != nil {
			return fmt.Errorf("failed to save forecast for %s: %w", schema.FormatDate(p.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit forecast: %w", err)
	}
	return nil
}

// LatestForecast returns the points of the most recently saved run for a horizon.
func (fs *ForecastStoreImpl) LatestForecast(ctx context.Context, userID string, horizonDays int) ([]schema.ForecastPoint, string, error) {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil, "", nil
	}

	table := quoteTableName(forecastsTable, fs.backend)
	var query string
	switch fs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT target_date, predicted_minutes, lower_bound, upper_bound, fallback, model_version
			FROM %[1]s WHERE user_id = $1 AND horizon_days = $2
			AND created_at = (SELECT MAX(created_at) FROM %[1]s WHERE user_id = $1 AND horizon_days = $2)
			ORDER BY target_date`, table)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT target_date, predicted_minutes, lower_bound, upper_bound, fallback, model_version
			FROM %[1]s WHERE user_id = ? AND horizon_days = ?
			AND created_at = (SELECT MAX(created_at) FROM %[1]s WHERE user_id = ? AND horizon_days = ?)
			ORDER BY target_date`, table)
	}

	args := []any{userID, horizonDays}
	if fs.backend != schema.PostgreSQLBackend {
		args = append(args, userID, horizonDays)
	}

	rows, err := fs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query latest forecast: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.ForecastPoint
	var version string
	for rows.Next() {
		var p schema.ForecastPoint
		var date string
		if err := rows.Scan(&date, &p.PredictedMinutes, &p.LowerBound, &p.UpperBound, &p.Fallback, &version); err != nil {
			return nil, "", fmt.Errorf("failed to scan forecast: %w", err)
		}
		if p.Date, err = schema.ParseDate(date); err != nil {
			return nil, "", fmt.Errorf("failed to parse target_date: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating forecasts: %w", err)
	}
	return points, version, nil
}

// SavePlan stores a generated plan with its full JSON payload.
func (fs *ForecastStoreImpl) SavePlan(ctx context.Context, plan schema.PlanSchedule) error {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil
	}
	if plan.PlanID == "" {
		return fmt.Errorf("plan for %s has no id", plan.UserID)
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	createdAt := plan.GeneratedAt
	if createdAt.IsZero() {
		createdAt = fs.now()
	}
	query := upsertQuery(plansTable, fs.backend, planColumns, []string{"plan_id"})
	if _, err := fs.db.ExecContext(ctx, query, plan.PlanID, plan.UserID, schema.FormatDate(plan.Start), schema.FormatDate(plan.End),
		plan.TargetHours, plan.IsFeasible, plan.FeasibilityScore, plan.ModelVersion, string(payload),
		formatTime(createdAt, fs.backend)); err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.PlanID, err)
	}
	return nil
}

// RegisterModel upserts a model into the registry.
func (fs *ForecastStoreImpl) RegisterModel(ctx context.Context, meta schema.ModelMetadata, registeredAt time.Time) error {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil
	}

	var cutoff any
	if meta.CutoffDate != "" {
		cutoff = meta.CutoffDate
	}
	query := upsertQuery(modelRegistryTable, fs.backend, modelColumns, []string{"model_version"})
	if _, err := fs.db.ExecContext(ctx, query, meta.ModelVersion, meta.ModelType, len(meta.Features), meta.P90AbsResidual,
		meta.MAETest, meta.TrainRows, meta.TestRows, cutoff, formatTime(registeredAt, fs.backend)); err != nil {
		return fmt.Errorf("failed to register model %s: %w", meta.ModelVersion, err)
	}
	return nil
}

// GetAllForecasts retrieves every saved forecast row.
func (fs *ForecastStoreImpl) GetAllForecasts() ([]schema.ForecastRecord, error) {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT user_id, target_date, model_version, horizon_days, predicted_minutes,
		lower_bound, upper_bound, fallback, created_at FROM %s ORDER BY user_id, target_date, model_version, horizon_days`,
		quoteTableName(forecastsTable, fs.backend))

	rows, err := fs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ForecastRecord
	for rows.Next() {
		var r schema.ForecastRecord
		var date string
		var createdAt timeScanner
		if err := rows.Scan(&r.UserID, &date, &r.ModelVersion, &r.HorizonDays, &r.PredictedMinutes,
			&r.LowerBound, &r.UpperBound, &r.Fallback, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		if r.TargetDate, err = schema.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse target_date: %w", err)
		}
		r.CreatedAt = createdAt.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecasts: %w", err)
	}
	return results, nil
}

// GetAllPlans retrieves every saved plan row.
func (fs *ForecastStoreImpl) GetAllPlans() ([]schema.PlanRecord, error) {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT plan_id, user_id, start_date, end_date, target_hours, is_feasible,
		feasibility_score, model_version, payload, created_at FROM %s ORDER BY plan_id`,
		quoteTableName(plansTable, fs.backend))

	rows, err := fs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PlanRecord
	for rows.Next() {
		var r schema.PlanRecord
		var start, end string
		var createdAt timeScanner
		if err := rows.Scan(&r.PlanID, &r.UserID, &start, &end, &r.TargetHours, &r.IsFeasible,
			&r.FeasibilityScore, &r.ModelVersion, &r.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		if r.StartDate, err = schema.ParseDate(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_date: %w", err)
		}
		if r.EndDate, err = schema.ParseDate(end); err != nil {
			return nil, fmt.Errorf("failed to parse end_date: %w", err)
		}
		r.CreatedAt = createdAt.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return results, nil
}

// GetAllModels retrieves every registered model.
func (fs *ForecastStoreImpl) GetAllModels() ([]schema.ModelRecord, error) {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT model_version, model_type, feature_count, p90_abs_residual, mae_test,
		train_rows, test_rows, cutoff_date, registered_at FROM %s ORDER BY model_version`,
		quoteTableName(modelRegistryTable, fs.backend))

	rows, err := fs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query model registry: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ModelRecord
	for rows.Next() {
		var r schema.ModelRecord
		var cutoff sql.NullString
		var registeredAt timeScanner
		if err := rows.Scan(&r.ModelVersion, &r.ModelType, &r.FeatureCount, &r.P90AbsResidual, &r.MAETest,
			&r.TrainRows, &r.TestRows, &cutoff, &registeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		r.CutoffDate = cutoff.String
		r.RegisteredAt = registeredAt.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model registry: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (fs *ForecastStoreImpl) Close() error {
	if fs.db != nil {
		return fs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the forecast store.
func (fs *ForecastStoreImpl) GetStatus() (schema.ForecastStoreStatus, error) {
	status := schema.ForecastStoreStatus{
		Backend:    string(fs.backend),
		Connected:  fs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if fs.backend == schema.NoneBackend || fs.db == nil {
		return status, nil
	}

	sizes, err := tableCounts(fs.db, fs.backend, forecastsTable, plansTable, modelRegistryTable)
	if err != nil {
		return status, err
	}
	status.TableSizes = sizes
	status.TotalForecasts = int(sizes[forecastsTable])
	status.TotalPlans = int(sizes[plansTable])
	status.TotalModels = int(sizes[modelRegistryTable])

	if status.TotalForecasts > 0 {
		var last timeScanner
		row := fs.db.QueryRow(fmt.Sprintf("SELECT MAX(created_at) FROM %s", quoteTableName(forecastsTable, fs.backend)))
		if err := row.Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last forecast time: %w", err)
		}
		status.LastForecastTime = last.Time
	}

	if status.TotalPlans > 0 {
		var last timeScanner
		row := fs.db.QueryRow(fmt.Sprintf("SELECT MAX(created_at) FROM %s", quoteTableName(plansTable, fs.backend)))
		if err := row.Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last plan time: %w", err)
		}
		status.LastPlanTime = last.Time
	}

	return status, nil
}
