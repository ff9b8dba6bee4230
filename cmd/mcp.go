package cmd

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Busy Bee MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents forecast, plan, explain
and budget through standard tools.

Tools:
  forecast_focus   - Forecast focus minutes for 1 to 7 days
  plan_capacity    - Plan target hours over a date range
  explain_forecast - Rank the features behind the forecast
  budget_plan      - Budget target hours for a day or a week

The --user flag sets the default user when a tool call names none.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to the rotating file so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, svc, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
