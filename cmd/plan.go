package cmd

import (
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/spf13/cobra"
)

// planCmd turns a forecast into a feasible schedule for target hours.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan target coding hours over a date range.",
	Long: `Check whether your target hours fit in a date range and spread them over the days.

The plan combines the forecast with your work profile to estimate how many
hours each day can really hold. Hours are allocated to the strongest days
first, then split across your best focus hours. Warnings point out risky
days, overloaded schedules and low forecast confidence.

The range defaults to the configured horizon starting today.

Examples:
  # Plan 20 hours for next week
  busybee plan --user ana --target-hours 20

  # Plan a fixed range
  busybee plan --user ana --start 2026-03-02 --end 2026-03-06 --target-hours 15

  # Export the daily allocation to CSV
  busybee plan --user ana --target-hours 20 --output csv --output-file plan.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, err := newService()
		if err != nil {
			contract.LogFatal("Cannot load forecasting service", err)
		}
		if err := core.ExecutePlan(rootCtx, cfg, svc, time.Now()); err != nil {
			contract.LogFatal("Cannot run plan", err)
		}
	},
}
