package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/spf13/cobra"
)

// budgetCmd spreads target hours over a day or a week.
var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget target hours for a day or a week.",
	Long: `Split target hours over the next day or week in proportion to the forecast.

Capacity is the forecast minus a buffer that grows as confidence drops, with
a cap of 6 hours a day. When the target does not fit, the budget suggests a
realistic one.

Examples:
  # Budget 12 hours for the coming week
  busybee budget --user ana --target-hours 12

  # Budget 3 hours for the next day
  busybee budget --user ana --period day --target-hours 3`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, err := newService()
		if err != nil {
			contract.LogFatal("Cannot load forecasting service", err)
		}
		if err := core.ExecuteBudget(rootCtx, cfg, svc); err != nil {
			contract.LogFatal("Cannot run budget", err)
		}
	},
}
