package iocache

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStore_Validation(t *testing.T) {
	err := MigrateStore(HistoryStoreKind, schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")

	err = MigrateStore("cache", schema.SQLiteBackend, "", -1)
	assert.ErrorContains(t, err, "unknown store")

	err = MigrateStore(ForecastStoreKind, "oracle", "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestMySQLMigrationDSN(t *testing.T) {
	dsn, err := mysqlMigrationDSN("root:secret@tcp(localhost:3306)/busybee?parseTime=true")
	require.NoError(t, err)
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "/busybee")

	_, err = mysqlMigrationDSN("not a dsn")
	assert.ErrorContains(t, err, "invalid MySQL connection string")
}

func TestMigrateStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "forecast.db")

	require.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, -1), "second run is a no-op")
	assert.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, 2))

	// A migrated database is usable by the store
	store, err := NewForecastStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Len(t, status.TableSizes, 3)
}

func TestMigrateStore_SeparateVersionTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	require.NoError(t, MigrateStore(HistoryStoreKind, schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateStore(ForecastStoreKind, schema.SQLiteBackend, dbPath, -1))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var history, forecast int
	require.NoError(t, db.QueryRow("SELECT version FROM busybee_history_migrations").Scan(&history))
	require.NoError(t, db.QueryRow("SELECT version FROM busybee_forecast_migrations").Scan(&forecast))
	assert.Equal(t, 1, history)
	assert.Equal(t, 2, forecast)
}

func TestMigrationsCoverEveryBackend(t *testing.T) {
	for _, kind := range []StoreKind{HistoryStoreKind, ForecastStoreKind} {
		for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
			files, err := fs.Glob(migrationsFS, filepath.ToSlash(filepath.Join("migrations", string(kind), string(backend), "*.up.sql")))
			require.NoError(t, err)
			assert.NotEmpty(t, files, "%s/%s", kind, backend)
		}
	}
}
