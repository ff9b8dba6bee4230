package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Default values for configuration.
const (
	DefaultHorizonDays    = 7
	MaxHorizonDays        = 7
	DefaultHistoryDays    = 120
	DefaultSessionDays    = 90
	DefaultPrecision      = 1
	DefaultExplainTop     = 8
	MinExplainTop         = 3
	MaxExplainTop         = 15
	DefaultModelTimeout   = 2 * time.Second
	DefaultFetchTimeout   = 5 * time.Second
	DefaultSchedule       = "0 2 * * *"
	DefaultHTTPAddr       = ":8080"
	DefaultWorkdayMinutes = schema.DefaultWorkdayMinutes
)

// Config holds the runtime configuration of a busybee command.
// This struct is the "final, validated" config.
type Config struct {
	UserID      string
	HorizonDays int
	StartDate   time.Time
	EndDate     time.Time
	TargetHours float64
	Period      schema.Period
	Top         int

	FeatureSet     schema.FeatureSetVersion
	ModelPath      string
	MetadataPath   string
	ModelTimeout   time.Duration
	FetchTimeout   time.Duration
	HistoryDays    int
	SessionDays    int
	WorkdayMinutes float64
	AllowBaseline  bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	ForecastBackend   schema.DatabaseBackend
	ForecastDBConnect string // Please use env var as this is plaintext

	HTTPAddr      string
	Schedule      string
	ScheduleUsers []string

	LogDir   string
	LogLevel string
	Debug    bool

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	User              string  `mapstructure:"user"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Precision         int     `mapstructure:"precision"`
	Width             int     `mapstructure:"width"`
	FeatureSet        string  `mapstructure:"feature-set"`
	Model             string  `mapstructure:"model"`
	ModelMetadata     string  `mapstructure:"model-metadata"`
	ModelTimeout      string  `mapstructure:"model-timeout"`
	FetchTimeout      string  `mapstructure:"fetch-timeout"`
	HistoryDays       int     `mapstructure:"history-days"`
	SessionDays       int     `mapstructure:"session-days"`
	WorkdayMinutes    float64 `mapstructure:"workday-minutes"`
	AllowBaseline     string  `mapstructure:"allow-baseline"`
	HistoryBackend    string  `mapstructure:"history-backend"`
	HistoryDBConnect  string  `mapstructure:"history-db-connect"`
	ForecastBackend   string  `mapstructure:"forecast-backend"`
	ForecastDBConnect string  `mapstructure:"forecast-db-connect"`
	LogDir            string  `mapstructure:"log-dir"`
	LogLevel          string  `mapstructure:"log-level"`
	Debug             bool    `mapstructure:"debug"`
	Emoji             string  `mapstructure:"emoji"`
	Color             string  `mapstructure:"color"`

	// --- Fields from command flags ---
	Days        int     `mapstructure:"days"`
	Start       string  `mapstructure:"start"`
	End         string  `mapstructure:"end"`
	TargetHours float64 `mapstructure:"target-hours"`
	Period      string  `mapstructure:"period"`
	Top         int     `mapstructure:"top"`

	// --- Fields from serveCmd.Flags() ---
	HTTPAddr      string `mapstructure:"http-addr"`
	Schedule      string `mapstructure:"schedule"`
	ScheduleUsers string `mapstructure:"schedule-users"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ScheduleUsers != nil {
		clone.ScheduleUsers = slices.Clone(c.ScheduleUsers)
	}
	return &clone
}

// CloneForUser creates a copy of the Config for another user.
func (c *Config) CloneForUser(userID string) *Config {
	clone := c.Clone()
	clone.UserID = userID
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processModelConfig(cfg, input); err != nil {
		return err
	}
	if err := processRequestInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processServeConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates history and forecast backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// --- Forecast Backend Validation ---
	cfg.ForecastBackend = schema.DatabaseBackend(strings.ToLower(input.ForecastBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ForecastBackend]; !ok {
		return fmt.Errorf("invalid forecast backend '%s'. must be sqlite, mysql, postgresql, none", input.ForecastBackend)
	}
	cfg.ForecastDBConnect = input.ForecastDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ForecastBackend, cfg.ForecastDBConnect); err != nil {
		return fmt.Errorf("forecast-db-connect: %w", err)
	}

	// Both stores on SQLite must not share a file
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.ForecastBackend == schema.SQLiteBackend {
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		forecastPath := cfg.ForecastDBConnect
		if forecastPath == "" {
			forecastPath = GetForecastDBFilePath()
		}
		if historyPath == forecastPath {
			return fmt.Errorf("history and forecast storage must use different SQLite database files. Both resolve to %q", historyPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.UserID = strings.TrimSpace(input.User)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogDir = input.LogDir
	cfg.LogLevel = input.LogLevel
	cfg.Debug = input.Debug

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	return nil
}

// processModelConfig handles the model location, feature set and timeouts.
func processModelConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.FeatureSet = schema.FeatureSetVersion(strings.ToLower(input.FeatureSet))
	if _, ok := schema.ValidFeatureSets[cfg.FeatureSet]; !ok {
		return fmt.Errorf("invalid feature set '%s'. must be full, legacy", input.FeatureSet)
	}

	cfg.ModelPath = strings.TrimSpace(input.Model)
	cfg.MetadataPath = strings.TrimSpace(input.ModelMetadata)
	if cfg.MetadataPath == "" && cfg.ModelPath != "" {
		cfg.MetadataPath = DefaultMetadataPath(cfg.ModelPath)
	}

	var err error
	if cfg.ModelTimeout, err = parsePositiveDuration("model-timeout", input.ModelTimeout, DefaultModelTimeout); err != nil {
		return err
	}
	if cfg.FetchTimeout, err = parsePositiveDuration("fetch-timeout", input.FetchTimeout, DefaultFetchTimeout); err != nil {
		return err
	}

	if input.HistoryDays <= 0 {
		return fmt.Errorf("history-days must be greater than 0 (received %d)", input.HistoryDays)
	}
	cfg.HistoryDays = input.HistoryDays

	if input.SessionDays <= 0 {
		return fmt.Errorf("session-days must be greater than 0 (received %d)", input.SessionDays)
	}
	cfg.SessionDays = input.SessionDays

	if input.WorkdayMinutes <= 0 || input.WorkdayMinutes > 24*60 {
		return fmt.Errorf("workday-minutes must be within (0, 1440] (received %.0f)", input.WorkdayMinutes)
	}
	cfg.WorkdayMinutes = input.WorkdayMinutes

	allow, err := ParseBoolString(input.AllowBaseline)
	if err != nil {
		return fmt.Errorf("invalid --allow-baseline value: %w", err)
	}
	cfg.AllowBaseline = allow
	return nil
}

// processRequestInputs handles the per-command request fields.
func processRequestInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Days < 1 || input.Days > MaxHorizonDays {
		return fmt.Errorf("days must be between 1 and %d (received %d)", MaxHorizonDays, input.Days)
	}
	cfg.HorizonDays = input.Days

	if input.Start != "" {
		t, err := schema.ParseDate(input.Start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		cfg.StartDate = t
	}
	if input.End != "" {
		t, err := schema.ParseDate(input.End)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		cfg.EndDate = t
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.EndDate.Before(cfg.StartDate) {
		return fmt.Errorf("end date (%s) cannot be before start date (%s)", schema.FormatDate(cfg.EndDate), schema.FormatDate(cfg.StartDate))
	}

	if input.TargetHours < 0 {
		return fmt.Errorf("target-hours cannot be negative (received %.1f)", input.TargetHours)
	}
	cfg.TargetHours = input.TargetHours

	cfg.Period = schema.Period(strings.ToLower(input.Period))
	if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be day, week", input.Period)
	}

	cfg.Top = ClampExplainTop(input.Top)
	return nil
}

// processServeConfig handles the HTTP address and refresh schedule.
func processServeConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HTTPAddr = strings.TrimSpace(input.HTTPAddr)
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	cfg.Schedule = strings.TrimSpace(input.Schedule)
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}

	cfg.ScheduleUsers = nil
	for u := range strings.SplitSeq(input.ScheduleUsers, ",") {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cfg.ScheduleUsers = append(cfg.ScheduleUsers, trimmed)
		}
	}
	return nil
}

// ClampExplainTop returns the number of features to explain, 8 when unset, within [3, 15].
func ClampExplainTop(top int) int {
	if top <= 0 {
		return DefaultExplainTop
	}
	return min(max(top, MinExplainTop), MaxExplainTop)
}

// DefaultMetadataPath returns the metadata sidecar next to a model file.
// "model.json" becomes "model.meta.json".
func DefaultMetadataPath(modelPath string) string {
	ext := filepath.Ext(modelPath)
	return strings.TrimSuffix(modelPath, ext) + ".meta.json"
}

// parsePositiveDuration parses a Go duration, using def when s is empty.
func parsePositiveDuration(name, s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (received %s)", name, s)
	}
	return d, nil
}
