package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteExplanationResult outputs feature importance, dispatching based on the output format configured.
func WriteExplanationResult(exp schema.Explanation, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, exp)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplanationCSV(w, exp, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for explanations, use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplanationTable(w, exp, cfg, fmtFloat)
		}, "Wrote table")
	}
}

// formatValue renders an optional feature value.
func formatValue(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// writeExplanationTable prints global importance, then local impacts when present.
func writeExplanationTable(w io.Writer, exp schema.Explanation, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("Why %s predicts what it does for %s (as of %s)",
		exp.ModelVersion, exp.UserID, schema.FormatDate(exp.AsOf))
	if err := writeTitle(w, cfg, "🔍", title); err != nil {
		return err
	}

	var global [][]string
	for i, f := range exp.GlobalImportance {
		global = append(global, []string{fmt.Sprintf("%d", i+1), f.Feature, fmtFloat(f.Importance)})
	}
	if err := renderTable(w, []string{"Rank", "Feature", "Importance"}, global); err != nil {
		return err
	}

	if len(exp.LocalImpacts) == 0 {
		return nil
	}
	if err := writeTitle(w, cfg, "", "Impact on the latest day"); err != nil {
		return err
	}
	var local [][]string
	for _, f := range exp.LocalImpacts {
		local = append(local, []string{f.Feature, formatValue(f.Value, fmtFloat), fmtFloat(f.Importance), fmtFloat(f.Impact)})
	}
	return renderTable(w, []string{"Feature", "Value", "Importance", "Impact"}, local)
}

// writeExplanationCSV writes global and local rows under a scope column.
func writeExplanationCSV(w io.Writer, exp schema.Explanation, fmtFloat func(float64) string) error {
	header := []string{"user_id", "model_version", "scope", "feature", "value", "importance", "impact"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range exp.GlobalImportance {
			rec := []string{exp.UserID, exp.ModelVersion, "global", f.Feature, "", fmtFloat(f.Importance), fmtFloat(f.Impact)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		for _, f := range exp.LocalImpacts {
			value := ""
			if f.Value != nil {
				value = fmtFloat(*f.Value)
			}
			rec := []string{exp.UserID, exp.ModelVersion, "local", f.Feature, value, fmtFloat(f.Importance), fmtFloat(f.Impact)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
