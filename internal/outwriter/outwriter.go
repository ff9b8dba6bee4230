// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteForecast prints a forecast using the configured output format.
func (ow *OutWriter) WriteForecast(result schema.ForecastResult, cfg *contract.Config) error {
	return WriteForecastResult(result, cfg)
}

// WritePlan prints a capacity plan using the configured output format.
func (ow *OutWriter) WritePlan(plan schema.PlanSchedule, cfg *contract.Config) error {
	return WritePlanResult(plan, cfg)
}

// WriteExplanation prints feature importance using the configured output format.
func (ow *OutWriter) WriteExplanation(exp schema.Explanation, cfg *contract.Config) error {
	return WriteExplanationResult(exp, cfg)
}

// WriteBudget prints a budget plan using the configured output format.
func (ow *OutWriter) WriteBudget(plan schema.BudgetPlan, cfg *contract.Config) error {
	return WriteBudgetResult(plan, cfg)
}

// WriteHistory prints measured history using the configured output format.
func (ow *OutWriter) WriteHistory(userID string, records []schema.DailyRecord, cfg *contract.Config) error {
	return WriteHistoryResult(userID, records, cfg)
}

// WriteModel prints model metadata using the configured output format.
func (ow *OutWriter) WriteModel(meta schema.ModelMetadata, cfg *contract.Config) error {
	return WriteModelResult(meta, cfg)
}

// WriteStoreStatus prints the status of both stores using the configured output format.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return WriteStoreStatusResult(status, cfg)
}
