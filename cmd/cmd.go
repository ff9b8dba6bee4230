// Package cmd defines the command-line interface for busybee.
package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyShowCmd)

	// Add the model subcommands to the parent model command
	modelCmd.AddCommand(modelInfoCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("user", "u", "", "User whose history is forecast")
	rootCmd.PersistentFlags().IntP("days", "d", contract.DefaultHorizonDays, "Forecast horizon in days (1-7)")
	rootCmd.PersistentFlags().String("start", "", "Plan start date (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().String("end", "", "Plan end date (YYYY-MM-DD, default start + days - 1)")
	rootCmd.PersistentFlags().Float64("target-hours", 0, "Coding hours to plan or budget for")
	rootCmd.PersistentFlags().String("period", string(schema.WeekPeriod), "Budget period: day or week")
	rootCmd.PersistentFlags().Int("top", contract.DefaultExplainTop, "Number of features to explain (3-15)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("feature-set", string(schema.FullFeatureSet), "Feature set the model was trained on: full or legacy")
	rootCmd.PersistentFlags().String("model", "", "Path to the trained model file")
	rootCmd.PersistentFlags().String("model-metadata", "", "Path to the model metadata (default <model>.meta.json)")
	rootCmd.PersistentFlags().String("model-timeout", contract.DefaultModelTimeout.String(), "Deadline for a single model prediction")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Deadline for history and profile lookups")
	rootCmd.PersistentFlags().Int("history-days", contract.DefaultHistoryDays, "Days of daily history to read")
	rootCmd.PersistentFlags().Int("session-days", contract.DefaultSessionDays, "Days of focus sessions used for the work profile")
	rootCmd.PersistentFlags().Float64("workday-minutes", contract.DefaultWorkdayMinutes, "Workday length when no sessions are recorded")
	rootCmd.PersistentFlags().String("allow-baseline", "no", "Serve a recency-weighted baseline when history is too short for the model (yes/no)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("forecast-backend", string(schema.SQLiteBackend), "Forecast backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("forecast-db-connect", "", "Database connection string for forecast storage (must differ from history-db-connect)")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory of the rotating log file (default ~/.busybee)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Also write logs to stderr")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyImportCmd to Viper
	historyImportCmd.Flags().String("daily-csv", "", "CSV of daily telemetry rows to import")
	historyImportCmd.Flags().String("sessions-csv", "", "CSV of focus sessions to import")
	if err := viper.BindPFlags(historyImportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history import flags", err)
	}

	// Bind all flags of storeCmd subcommands to Viper
	storeCmd.PersistentFlags().String("store", string(iocache.HistoryStoreKind), "Store to operate on: history or forecast")
	if err := viper.BindPFlags(storeCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding store flags", err)
	}
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("http-addr", contract.DefaultHTTPAddr, "Address of the HTTP API")
	serveCmd.Flags().String("schedule", contract.DefaultSchedule, "Cron schedule of the nightly forecast refresh")
	serveCmd.Flags().String("schedule-users", "", "Comma-separated users refreshed on schedule (empty disables the scheduler)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}
}
