// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the busybee MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, planner contract.Planner, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Busy Bee Focus Planner",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		planner: planner,
	}

	// --- 1. Tool: forecast_focus ---
	s.AddTool(mcp.NewTool("forecast_focus",
		mcp.WithDescription("Forecast daily focus minutes for the next days from a user's coding telemetry."),
		mcp.WithString("user_id", mcp.Description("The user to forecast."), mcp.Required()),
		mcp.WithNumber("days", mcp.Description("Horizon in days, 1 to 7. Defaults to the configured horizon.")),
	), h.handleForecastFocus)

	// --- 2. Tool: plan_capacity ---
	s.AddTool(mcp.NewTool("plan_capacity",
		mcp.WithDescription("Plan a target number of focus hours over a date range with an hourly schedule and warnings."),
		mcp.WithString("user_id", mcp.Description("The user to plan for."), mcp.Required()),
		mcp.WithString("start", mcp.Description("First day of the plan (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last day of the plan (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithNumber("target_hours", mcp.Description("Hours of focused work to plan.")),
	), h.handlePlanCapacity)

	// --- 3. Tool: explain_forecast ---
	s.AddTool(mcp.NewTool("explain_forecast",
		mcp.WithDescription("Explain which features drive the forecast, globally and for the user's latest day."),
		mcp.WithString("user_id", mcp.Description("The user to explain."), mcp.Required()),
		mcp.WithNumber("top", mcp.Description("Number of features to return, 3 to 15. Defaults to 8.")),
	), h.handleExplainForecast)

	// --- 4. Tool: budget_plan ---
	s.AddTool(mcp.NewTool("budget_plan",
		mcp.WithDescription("Spread a focus target over the next day or week using the latest forecast."),
		mcp.WithString("user_id", mcp.Description("The user to budget for."), mcp.Required()),
		mcp.WithString("period", mcp.Description("Budget period. Defaults to 'week'."), mcp.Enum("day", "week")),
		mcp.WithNumber("target_hours", mcp.Description("Hours to budget."), mcp.Required()),
	), h.handleBudgetPlan)

	return s
}

// StartMCPServer starts the busybee MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, planner contract.Planner, version string) error {
	s := NewMCPServer(baseCfg, planner, version)
	return server.ServeStdio(s)
}
