package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/spf13/cobra"
)

// explainCmd shows which features drive the model.
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show the features that drive the forecast.",
	Long: `Rank the model features by importance, scaled so the strongest is 1.

The global ranking comes from the model itself. The local ranking weighs each
importance by the feature's latest value for the user, showing what drives
their next prediction. A user without history only gets the global ranking.

Examples:
  # Show the top 8 features
  busybee explain --user ana

  # Show the top 12 as JSON
  busybee explain --user ana --top 12 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, err := newService()
		if err != nil {
			contract.LogFatal("Cannot load forecasting service", err)
		}
		if err := core.ExecuteExplain(rootCtx, cfg, svc); err != nil {
			contract.LogFatal("Cannot run explain", err)
		}
	},
}
