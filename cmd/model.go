package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/spf13/cobra"
)

// modelCmd focused on the trained forecasting model.
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the trained forecasting model",
}

// modelInfoCmd prints the metadata of the configured model.
var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the version, features and metrics of the model",
	Long: `Print the metadata of the configured model.

Shows the model version and type, the training window, evaluation metrics
and the ordered feature list the model expects.

Examples:
  # Inspect a model and its sidecar
  busybee model info --model models/focus.json

  # Inspect metadata only
  busybee model info --model-metadata models/focus.meta.json --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModelInfo(cfg); err != nil {
			contract.LogFatal("Cannot read model", err)
		}
	},
}
