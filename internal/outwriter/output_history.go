package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteHistoryResult outputs measured history, dispatching based on the output format configured.
func WriteHistoryResult(userID string, records []schema.DailyRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{"user_id": userID, "records": records})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for history, use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, userID, records, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeHistoryTable(w io.Writer, userID string, records []schema.DailyRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	if err := writeTitle(w, cfg, "📚", fmt.Sprintf("History for %s (%d days)", userID, len(records))); err != nil {
		return err
	}
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			contract.FormatDateLabel(r.Date),
			fmtFloat(r.FocusMinutes),
			fmtFloat(r.IdleMinutes),
			fmtFloat(r.ErrorCount),
			fmtFloat(r.DayFocusMinutes),
			fmtFloat(r.NightFocusMinutes),
			fmtFloat(r.FileSwitchRate),
		})
	}
	return renderTable(w, []string{"Date", "Focus", "Idle", "Errors", "Day", "Night", "Switches/min"}, data)
}

// writeHistoryCSV writes records in the layout accepted by history import.
func writeHistoryCSV(w io.Writer, records []schema.DailyRecord) error {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return writeCSVWithHeader(w, iocache.DailyCSVHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				schema.FormatDate(r.Date),
				f(r.FocusMinutes),
				f(r.IdleMinutes),
				f(r.IdleSessions),
				f(r.AvgIdleSessionMinutes),
				f(r.ErrorCount),
				f(r.ErrorFixMinutes),
				f(r.DayFocusMinutes),
				f(r.NightFocusMinutes),
				f(r.FileSwitchRate),
				f(r.ErrorDensity),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
