package cmd

import (
	"os"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyCmd focused on the daily telemetry of users.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Import and inspect daily coding telemetry",
	Long: `Manage the measured history that every forecast is built from.

Subcommands:
  import - Load daily metrics and focus sessions from CSV files
  show   - Print the stored days of a user`,
}

// historyImportCmd loads CSV telemetry into the history store.
var historyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load daily metrics and focus sessions from CSV files",
	Long: `Import daily metrics and focus sessions for a user.

Daily CSV columns (only date and focus_minutes are required):
  date, focus_minutes, idle_minutes, idle_sessions, avg_idle_session_minutes,
  error_count, error_fix_minutes, day_focus_minutes, night_focus_minutes,
  file_switch_rate, error_density

Session CSV columns:
  start (RFC 3339), duration_minutes

Rows already stored for the same day or session start are replaced.

Examples:
  # Import a month of telemetry
  busybee history import --user ana --daily-csv ana-daily.csv

  # Import sessions into MySQL
  BUSYBEE_HISTORY_BACKEND=mysql BUSYBEE_HISTORY_DB_CONNECT="..." busybee history import --user ana --sessions-csv ana-sessions.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dailyPath := viper.GetString("daily-csv")
		sessionsPath := viper.GetString("sessions-csv")
		if err := core.ExecuteHistoryImport(rootCtx, cfg, iocache.Manager.GetHistoryStore(), dailyPath, sessionsPath, os.Stdout); err != nil {
			contract.LogFatal("Cannot import history", err)
		}
	},
}

// historyShowCmd prints the stored days of a user.
var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored days of a user",
	Long: `Print the most recent measured days of a user, oldest first.

The number of days follows --history-days.

Examples:
  # Show the last 120 days
  busybee history show --user ana

  # Export the last two weeks as CSV
  busybee history show --user ana --history-days 14 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryShow(rootCtx, cfg, iocache.Manager.GetHistoryStore()); err != nil {
			contract.LogFatal("Cannot show history", err)
		}
	},
}
