package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteBudgetResult outputs a budget plan, dispatching based on the output format configured.
func WriteBudgetResult(plan schema.BudgetPlan, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plan)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBudgetCSV(w, plan, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for budgets, use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBudgetTable(w, plan, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeBudgetTable(w io.Writer, plan schema.BudgetPlan, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("Budget for %s: %s h over a %s", plan.UserID, fmtFloat(plan.TargetHours), plan.Period)
	if err := writeTitle(w, cfg, "⏱️ ", title); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Capacity %s h after a %d%% buffer, suggested target %s h (%s)",
			fmtFloat(plan.CapacityHours), plan.BufferPercent, fmtFloat(plan.SuggestedTargetHours), feasibleText(plan.Feasible)),
		fmt.Sprintf("Confidence: %s | Best window: %s", levelLabel(cfg, string(plan.Confidence)), plan.BestWindow),
		plan.Reason,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	var data [][]string
	for _, d := range plan.Days {
		data = append(data, []string{contract.FormatDateLabel(d.Date), fmtFloat(d.Hours), string(d.Window)})
	}
	if err := renderTable(w, []string{"Date", "Hours", "Window"}, data); err != nil {
		return err
	}
	if plan.UnallocatedMinutes > 0 {
		_, err := fmt.Fprintf(w, "%s of the target could not be placed\n", contract.FormatMinutes(plan.UnallocatedMinutes))
		return err
	}
	return nil
}

func writeBudgetCSV(w io.Writer, plan schema.BudgetPlan, fmtFloat func(float64) string) error {
	header := []string{"user_id", "period", "date", "hours", "window", "feasible", "buffer_percent", "model_version"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range plan.Days {
			rec := []string{
				plan.UserID,
				string(plan.Period),
				schema.FormatDate(d.Date),
				fmtFloat(d.Hours),
				string(d.Window),
				strconv.FormatBool(plan.Feasible),
				strconv.Itoa(plan.BufferPercent),
				plan.ModelVersion,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
