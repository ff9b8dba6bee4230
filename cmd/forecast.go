package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/spf13/cobra"
)

// forecastCmd predicts focus minutes for the next days.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast focus minutes for the next days.",
	Long: `Predict daily focus minutes for up to 7 days after your latest recorded day.

Each day is forecast from a rolling window over your history, so later days
build on earlier predictions. Every prediction carries an interval that widens
with the horizon, and the summary tells you whether the coming week looks
better or worse than your recent pattern.

Examples:
  # Forecast the next week
  busybee forecast --user ana

  # Forecast three days as JSON
  busybee forecast --user ana --days 3 --output json

  # Archive the forecast as Parquet
  busybee forecast --user ana --output parquet --output-file ana.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, err := newService()
		if err != nil {
			contract.LogFatal("Cannot load forecasting service", err)
		}
		if err := core.ExecuteForecast(rootCtx, cfg, svc); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
