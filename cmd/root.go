package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/model"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "busybee",
	Short:              "Forecast focus minutes and plan coding capacity.",
	Long:               `Busy Bee turns daily coding telemetry into a focus forecast, a feasible plan for your target hours, and an hour-by-hour schedule.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".busybee") // Name of config file (without extension)
		viper.SetConfigType("yaml")     // We'll use YAML format
		viper.AddConfigPath(".")        // Look in the current directory
		viper.AddConfigPath("$HOME")    // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("BUSYBEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("days", contract.DefaultHorizonDays)
	viper.SetDefault("period", schema.WeekPeriod)
	viper.SetDefault("top", contract.DefaultExplainTop)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("feature-set", schema.FullFeatureSet)
	viper.SetDefault("model-timeout", contract.DefaultModelTimeout.String())
	viper.SetDefault("fetch-timeout", contract.DefaultFetchTimeout.String())
	viper.SetDefault("history-days", contract.DefaultHistoryDays)
	viper.SetDefault("session-days", contract.DefaultSessionDays)
	viper.SetDefault("workday-minutes", contract.DefaultWorkdayMinutes)
	viper.SetDefault("allow-baseline", "no")
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("forecast-backend", schema.SQLiteBackend)
	viper.SetDefault("forecast-db-connect", "")
	viper.SetDefault("log-dir", contract.GetLogDir())
	viper.SetDefault("emoji", "no")
	viper.SetDefault("color", "yes")
	viper.SetDefault("http-addr", contract.DefaultHTTPAddr)
	viper.SetDefault("schedule", contract.DefaultSchedule)
}

// sharedSetup unmarshals config, runs validation, starts logging and opens both stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Start the rotating application log
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir, Level: cfg.LogLevel}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.ForecastBackend, cfg.ForecastDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// newService loads the configured model and binds it to the global stores.
func newService() (*core.Service, error) {
	if cfg.ModelPath == "" {
		return nil, &core.Error{Kind: core.KindModelUnavailable, Msg: "--model is required"}
	}
	m, err := model.Load(cfg.ModelPath, cfg.MetadataPath)
	if err != nil {
		return nil, &core.Error{Kind: core.KindModelUnavailable, Msg: "failed to load model", Err: err}
	}

	history := iocache.Manager.GetHistoryStore()
	return core.NewService(cfg, core.Deps{
		Model:     m,
		History:   history,
		Sessions:  history,
		Forecasts: iocache.Manager.GetForecastStore(),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
