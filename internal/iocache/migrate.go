package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*/*/*.sql
var migrationsFS embed.FS

// StoreKind selects which store a migration applies to.
type StoreKind string

// Store kinds with their own migration history.
const (
	HistoryStoreKind  StoreKind = "history"
	ForecastStoreKind StoreKind = "forecast"
)

// migrationsTable returns the version table of a store kind.
func (k StoreKind) migrationsTable() string {
	return fmt.Sprintf("busybee_%s_migrations", k)
}

// defaultPath returns the SQLite file of a store kind.
func (k StoreKind) defaultPath() string {
	if k == HistoryStoreKind {
		return GetHistoryDBFilePath()
	}
	return GetForecastDBFilePath()
}

// mysqlMigrationDSN enables multi-statement execution, which the MySQL
// migration files rely on.
func mysqlMigrationDSN(connStr string) (string, error) {
	dsnCfg, err := gomysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	dsnCfg.MultiStatements = true
	return dsnCfg.FormatDSN(), nil
}

// MigrateStore runs database migrations for a store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateStore(kind StoreKind, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if kind != HistoryStoreKind && kind != ForecastStoreKind {
		return fmt.Errorf("unknown store %q", kind)
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite3"
		if connStr == "" {
			connStr = kind.defaultPath()
		}
	case schema.MySQLBackend:
		driverName = "mysql"
		var err error
		if connStr, err = mysqlMigrationDSN(connStr); err != nil {
			return err
		}
	case schema.PostgreSQLBackend:
		driverName = "pgx"
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	// Verify connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Create a migrate driver instance
	var driver database.Driver
	table := kind.migrationsTable()
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: table})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: table})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: table, MultiStatementEnabled: true})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory for this store and backend
	migrationFS, err := fs.Sub(migrationsFS, path.Join("migrations", string(kind), string(backend)))
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	// Create source driver from embedded FS
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "busybee", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Get current version
	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("%s store is in a dirty state at version %d. Please fix manually or force version", kind, currentVersion)
	}

	// Perform migration
	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at the latest version.\n", kind)
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated the %s store from version %d to version %d\n", kind, currentVersion, newVersion)
		}

	case targetVersion == 0:
		// Special case: migrate all the way down to version 0 (no migrations applied)
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at version 0\n", kind)
		} else {
			fmt.Printf("Successfully rolled back the %s store from version %d to version 0\n", kind, currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. The %s store is already at version %d\n", kind, targetVersion)
		} else {
			fmt.Printf("Successfully migrated the %s store from version %d to version %d\n", kind, currentVersion, targetVersion)
		}
	}

	return nil
}
