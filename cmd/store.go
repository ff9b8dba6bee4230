package cmd

import (
	"fmt"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/outwriter"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigSetup loads the minimal configuration needed for store operations.
// This is used by commands that need store settings without the full shared setup.
func storeConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	cfg.HistoryBackend = schema.DatabaseBackend(viper.GetString("history-backend"))
	cfg.HistoryDBConnect = viper.GetString("history-db-connect")
	cfg.ForecastBackend = schema.DatabaseBackend(viper.GetString("forecast-backend"))
	cfg.ForecastDBConnect = viper.GetString("forecast-db-connect")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}
	if err := contract.ValidateDatabaseConnectionString(cfg.ForecastBackend, cfg.ForecastDBConnect); err != nil {
		return fmt.Errorf("forecast-db-connect: %w", err)
	}
	return nil
}

// storeSetup loads the store settings and opens both stores.
func storeSetup() error {
	if err := storeConfigSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.ForecastBackend, cfg.ForecastDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigSetupWrapper wraps storeConfigSetup for commands that manage the stores themselves.
func storeConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfigSetup()
}

// selectedStore resolves --store to a store kind with its backend, file and connection string.
func selectedStore() (iocache.StoreKind, schema.DatabaseBackend, string, string, error) {
	var backend schema.DatabaseBackend
	var dbFile, connStr string
	kind := iocache.StoreKind(viper.GetString("store"))
	switch kind {
	case iocache.HistoryStoreKind:
		backend, dbFile, connStr = cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect
	case iocache.ForecastStoreKind:
		backend, dbFile, connStr = cfg.ForecastBackend, contract.GetForecastDBFilePath(), cfg.ForecastDBConnect
	default:
		return "", "", "", "", fmt.Errorf("invalid store '%s'. must be history, forecast", kind)
	}
	// A SQLite connection string is the database file itself
	if backend == schema.SQLiteBackend && connStr != "" {
		dbFile = connStr
	}
	return kind, backend, dbFile, connStr, nil
}

// storeCmd focused on store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by forecasting commands. This avoids model and
// request validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the history and forecast stores",
	Long: `Manage the two databases busybee works with.

The history store holds the daily telemetry and focus sessions you import.
The forecast store keeps every forecast, plan and model that was served.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show row counts and connection info of both stores
  clear   - Remove all data of one store
  export  - Export saved forecasts, plans and models to Parquet
  migrate - Run schema migrations of one store

Examples:
  # Check store status
  busybee store status

  # Clear saved forecasts
  busybee store clear --store forecast`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about both stores.

Displays:
- Backend type and connection status
- Users, days and sessions in the history store
- Forecast rows, plans and registered models in the forecast store
- Table sizes

Examples:
  # Check store status
  busybee store status

  # Check store status as JSON
  busybee store status --output json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var status schema.StoreStatus
		var err error
		if store := iocache.Manager.GetHistoryStore(); store != nil {
			if status.History, err = store.GetStatus(); err != nil {
				contract.LogFatal("Failed to get history status", err)
			}
		}
		if store := iocache.Manager.GetForecastStore(); store != nil {
			if status.Forecast, err = store.GetStatus(); err != nil {
				contract.LogFatal("Failed to get forecast status", err)
			}
		}
		if err := outwriter.NewOutWriter().WriteStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write store status", err)
		}
	},
}

// storeClearCmd clears one store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all data of one store",
	Long: `Delete all data from the history or forecast store.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  # Clear SQLite history (default)
  busybee store clear

  # Clear MySQL forecasts (set connection string via env variable)
  BUSYBEE_FORECAST_BACKEND=mysql BUSYBEE_FORECAST_DB_CONNECT="..." busybee store clear --store forecast`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		kind, backend, dbFile, connStr, err := selectedStore()
		if err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		if kind == iocache.HistoryStoreKind {
			err = iocache.ClearHistory(backend, dbFile, connStr)
		} else {
			err = iocache.ClearForecasts(backend, dbFile, connStr)
		}
		if err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Printf("Cleared %s store.\n", kind)
	},
}

// storeExportCmd exports the forecast store to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved forecasts, plans and models to Parquet",
	Long: `Export the forecast store to three Parquet files.

Files are written next to --output-file with the suffixes
.forecasts.parquet, .plans.parquet and .models.parquet.

Examples:
  # Export to ./busybee.*.parquet
  busybee store export --output-file busybee`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteForecastExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export forecasts", err)
		}
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history or forecast store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate the history store to the latest version (default)
  busybee store migrate

  # Migrate the forecast store to a specific version
  busybee store migrate --store forecast --target-version 1

  # Rollback to the initial state
  busybee store migrate --target-version 0`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		kind, backend, _, connStr, err := selectedStore()
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(kind, backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Migrated %s store.\n", kind)
	},
}
