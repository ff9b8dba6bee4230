package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WritePlanResult outputs a capacity plan, dispatching based on the output format configured.
func WritePlanResult(plan schema.PlanSchedule, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plan)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlanCSV(w, plan, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for plans, use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlanTable(w, plan, cfg, fmtFloat)
		}, "Wrote table")
	}
}

// writePlanTable generates and writes the human-readable plan.
func writePlanTable(w io.Writer, plan schema.PlanSchedule, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("Plan %s for %s: %s to %s", plan.PlanID, plan.UserID,
		schema.FormatDate(plan.Start), schema.FormatDate(plan.End))
	if err := writeTitle(w, cfg, "🗓️ ", title); err != nil {
		return err
	}

	summary := []string{
		fmt.Sprintf("Target %s h, available %s h, feasibility %s%% (%s)",
			fmtFloat(plan.TargetHours), fmtFloat(plan.TotalAvailableHours), fmtFloat(plan.FeasibilityScore), feasibleText(plan.IsFeasible)),
		fmt.Sprintf("Confidence: %s (%s)", levelLabel(cfg, string(plan.Confidence.Level)), fmtFloat(plan.Confidence.Overall)),
		fmt.Sprintf("Best hours: %s, %s. %s", plan.BestHours.RecommendedTime, plan.BestHours.Hours, plan.BestHours.Reason),
	}
	if plan.Stretch != nil {
		summary = append(summary, plan.Stretch.Message)
	}
	if plan.Suggestion != nil {
		summary = append(summary, plan.Suggestion.Message)
	}
	if len(plan.SkippedDates) > 0 {
		skipped := make([]string, len(plan.SkippedDates))
		for i, d := range plan.SkippedDates {
			skipped[i] = schema.FormatDate(d)
		}
		summary = append(summary, "Skipped (already in history): "+strings.Join(skipped, ", "))
	}
	for _, line := range summary {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	noteWidth := GetMaxMessageWidth(cfg, 75)
	var days [][]string
	for _, d := range plan.Days {
		days = append(days, []string{
			contract.FormatDateLabel(d.Date),
			contract.FormatMinutes(d.PredictedFocusMinutes),
			fmtFloat(d.AvailableHours),
			fmtFloat(d.AllocatedHours),
			levelLabel(cfg, string(d.ProductivityLevel)),
			formatSchedule(d.HourlySchedule),
			truncate(d.Note, noteWidth),
		})
	}
	if err := renderTable(w, []string{"Date", "Predicted", "Available", "Allocated", "Productivity", "Schedule", "Note"}, days); err != nil {
		return err
	}

	if len(plan.Warnings) == 0 {
		return nil
	}
	if err := writeTitle(w, cfg, "⚠️ ", "Warnings"); err != nil {
		return err
	}
	msgWidth := GetMaxMessageWidth(cfg, 40)
	var warnings [][]string
	for _, warn := range plan.Warnings {
		date := "-"
		if warn.Date != nil {
			date = schema.FormatDate(*warn.Date)
		}
		warnings = append(warnings, []string{severityLabel(cfg, string(warn.Severity)), date, truncate(warn.Message, msgWidth)})
	}
	return renderTable(w, []string{"Severity", "Date", "Message"}, warnings)
}

// formatSchedule summarizes hour slots like "9-10am deep_work, 10-11am code_review".
func formatSchedule(slots []schema.HourSlot) string {
	if len(slots) == 0 {
		return "-"
	}
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = fmt.Sprintf("%s %s", s.TimeRange, s.Task)
	}
	return strings.Join(parts, ", ")
}

func feasibleText(ok bool) string {
	if ok {
		return "feasible"
	}
	return "not feasible"
}

// writePlanCSV writes one row per planned day.
func writePlanCSV(w io.Writer, plan schema.PlanSchedule, fmtFloat func(float64) string) error {
	header := []string{
		"plan_id", "user_id", "date", "predicted_minutes", "available_hours", "allocated_hours",
		"productivity", "scheduled_hours", "unscheduled_hours", "note", "is_feasible", "confidence",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range plan.Days {
			var scheduled float64
			for _, s := range d.HourlySchedule {
				scheduled += s.DurationHours
			}
			rec := []string{
				plan.PlanID,
				plan.UserID,
				schema.FormatDate(d.Date),
				strconv.Itoa(d.PredictedFocusMinutes),
				fmtFloat(d.AvailableHours),
				fmtFloat(d.AllocatedHours),
				string(d.ProductivityLevel),
				fmtFloat(scheduled),
				fmtFloat(d.UnscheduledHours),
				d.Note,
				strconv.FormatBool(plan.IsFeasible),
				string(plan.Confidence.Level),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
