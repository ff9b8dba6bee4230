package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Users: %d\n", status.TotalUsers)
	_, _ = fmt.Fprintf(w, "Measured Days: %d\n", status.TotalDays)
	_, _ = fmt.Fprintf(w, "Focus Sessions: %d\n", status.TotalSessions)
	if status.TotalDays > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Day: %s\n", schema.FormatDate(status.OldestEntryDate))
		_, _ = fmt.Fprintf(w, "Latest Day: %s\n", schema.FormatDate(status.LatestEntryDate))
	}
	printTableSizes(w, status.TableSizes)
}

// PrintForecastStatus prints forecast store status information.
func PrintForecastStatus(w io.Writer, status schema.ForecastStoreStatus) {
	_, _ = fmt.Fprintf(w, "Forecast Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Forecast Rows: %d\n", status.TotalForecasts)
	if status.TotalForecasts > 0 {
		_, _ = fmt.Fprintf(w, "Last Forecast: %s\n", status.LastForecastTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Plans: %d\n", status.TotalPlans)
	if status.TotalPlans > 0 {
		_, _ = fmt.Fprintf(w, "Last Plan: %s\n", status.LastPlanTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Registered Models: %d\n", status.TotalModels)
	printTableSizes(w, status.TableSizes)
}

func printTableSizes(w io.Writer, sizes map[string]int64) {
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(sizes))
	for table := range sizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, sizes[table])
	}
}
