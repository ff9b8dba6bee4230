package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	planner contract.Planner
}

// userFrom returns the trimmed user_id argument, falling back to the configured user.
func (h *toolHandler) userFrom(request mcp.CallToolRequest) (string, error) {
	user := strings.TrimSpace(request.GetString("user_id", ""))
	if user == "" {
		user = h.baseCfg.UserID
	}
	if user == "" {
		return "", errors.New("user_id is required")
	}
	return user, nil
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// failure reports a planner error by kind and message. Causes and unkinded
// errors are only logged.
func failure(op string, err error) *mcp.CallToolResult {
	kind, msg := core.Describe(err)
	if kind == "" {
		logger.Error("tool failed", "tool", op, "error", err)
		return mcp.NewToolResultError(op + " failed: internal error")
	}
	logger.Debug("tool rejected", "tool", op, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed (%s): %s", op, kind, msg))
}

func (h *toolHandler) handleForecastFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.userFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	days := request.GetInt("days", h.baseCfg.HorizonDays)
	if days < 1 || days > contract.MaxHorizonDays {
		return mcp.NewToolResultError(fmt.Sprintf("days must be between 1 and %d", contract.MaxHorizonDays)), nil
	}

	result, err := h.planner.Forecast(ctx, user, days)
	if err != nil {
		return failure("forecast", err), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handlePlanCapacity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.userFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := schema.ParseDate(request.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := schema.ParseDate(request.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}
	target := request.GetFloat("target_hours", h.baseCfg.TargetHours)
	if target < 0 {
		return mcp.NewToolResultError("target_hours cannot be negative"), nil
	}

	plan, err := h.planner.Plan(ctx, user, start, end, target)
	if err != nil {
		return failure("plan", err), nil
	}
	return jsonResult(plan)
}

func (h *toolHandler) handleExplainForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.userFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	top := contract.ClampExplainTop(request.GetInt("top", h.baseCfg.Top))

	explanation, err := h.planner.Explain(ctx, user, top)
	if err != nil {
		return failure("explain", err), nil
	}
	return jsonResult(explanation)
}

func (h *toolHandler) handleBudgetPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.userFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	period := schema.Period(strings.ToLower(request.GetString("period", string(schema.WeekPeriod))))
	if _, ok := schema.ValidPeriods[period]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid period '%s'. must be day, week", period)), nil
	}
	target := request.GetFloat("target_hours", 0)
	if target <= 0 {
		return mcp.NewToolResultError("target_hours must be greater than 0"), nil
	}

	budget, err := h.planner.Budget(ctx, user, period, target)
	if err != nil {
		return failure("budget", err), nil
	}
	return jsonResult(budget)
}
