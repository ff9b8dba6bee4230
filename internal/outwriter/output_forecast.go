package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/parquet"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteForecastResult outputs a forecast, dispatching based on the output format configured.
func WriteForecastResult(result schema.ForecastResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastCSV(w, result, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		if err := parquet.WriteForecastsParquet(parquet.ConvertForecastResult(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTable(w, result, cfg, fmtFloat)
		}, "Wrote table")
	}
}

// forecastSource names where a point came from.
func forecastSource(p schema.ForecastPoint) string {
	if p.Fallback {
		return "fallback"
	}
	return "model"
}

// writeForecastTable generates and writes the human-readable forecast.
func writeForecastTable(w io.Writer, result schema.ForecastResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("Focus forecast for %s (%s, %d days)", result.UserID, result.ModelVersion, result.HorizonDays)
	if result.Baseline {
		title += " - baseline, not enough history for the model"
	}
	if err := writeTitle(w, cfg, "📈", title); err != nil {
		return err
	}

	var data [][]string
	for _, p := range result.Points {
		data = append(data, []string{
			contract.FormatDateLabel(p.Date),
			contract.FormatMinutes(p.PredictedMinutes),
			fmtFloat(p.LowerBound),
			fmtFloat(p.UpperBound),
			forecastSource(p),
		})
	}
	if err := renderTable(w, []string{"Date", "Predicted", "Low", "High", "Source"}, data); err != nil {
		return err
	}

	if in := result.Insights; in != nil {
		lines := []string{
			fmt.Sprintf("Trend: %s | Risk: %s | Interval confidence: %s | Best window: %s",
				in.Trend, severityLabel(cfg, string(in.RiskLevel)), levelLabel(cfg, string(in.IntervalConfidence)), in.BestWindow),
			fmt.Sprintf("Recent average %s min/day, predicted average %s min/day", fmtFloat(in.RecentAvgFocus), fmtFloat(in.PredictedAvg)),
			in.Summary,
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeForecastCSV writes one row per forecast point.
func writeForecastCSV(w io.Writer, result schema.ForecastResult, fmtFloat func(float64) string) error {
	header := []string{"user_id", "date", "predicted_minutes", "lower_bound", "upper_bound", "source", "model_version", "horizon_days"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			rec := []string{
				result.UserID,
				schema.FormatDate(p.Date),
				strconv.Itoa(p.PredictedMinutes),
				fmtFloat(p.LowerBound),
				fmtFloat(p.UpperBound),
				forecastSource(p),
				result.ModelVersion,
				strconv.Itoa(result.HorizonDays),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
