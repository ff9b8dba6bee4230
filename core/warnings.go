package core

import (
	"fmt"
	"sort"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Warning thresholds.
const (
	focusRiskSwitchRate = 2.0
	lowFocusMinutes     = 25.0
	highErrorDensity    = 8.0
)

// ScanWarnings raises every advisory that applies to a plan, sorted by severity.
// Triggers are independent: one day can raise several warnings.
func ScanWarnings(days []DayOutlook, feasible bool, targetHours float64) []schema.Warning {
	var warnings []schema.Warning
	if !feasible {
		warnings = append(warnings, schema.Warning{
			Type:     schema.InfeasibleWarning,
			Severity: schema.SeverityHigh,
			Message:  fmt.Sprintf("Target of %.1f hours is not feasible with predicted productivity", targetHours),
		})
	}

	for _, d := range days {
		date := d.Date
		if d.FileSwitchRate > focusRiskSwitchRate {
			warnings = append(warnings, schema.Warning{
				Type:     schema.FocusRiskWarning,
				Severity: schema.SeverityMedium,
				Date:     &date,
				Message:  fmt.Sprintf("High file-switching predicted (%.1f/min) - focus risk on this day", d.FileSwitchRate),
			})
		}
		if d.FocusMinutes < lowFocusMinutes {
			warnings = append(warnings, schema.Warning{
				Type:     schema.LowFocusWarning,
				Severity: schema.SeverityMedium,
				Date:     &date,
				Message:  fmt.Sprintf("Low focus predicted (%.0f min) - consider lighter tasks", d.FocusMinutes),
			})
		}
		if d.ErrorDensity > highErrorDensity {
			warnings = append(warnings, schema.Warning{
				Type:     schema.HighErrorsWarning,
				Severity: schema.SeverityLow,
				Date:     &date,
				Message:  fmt.Sprintf("High error density predicted (%.1f/KLOC) - allocate debugging time", d.ErrorDensity),
			})
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.Rank() < warnings[j].Severity.Rank()
	})
	return warnings
}
