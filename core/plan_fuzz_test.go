package core

import (
	"math"
	"testing"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

func FuzzPlanCapacity(f *testing.F) {
	f.Add(60.0, 30.0, 1.2, 10.0, 6.0, 9.0)
	f.Add(0.0, 0.0, 0.0, 0.0, 0.0, 0.0)
	f.Add(500.0, 900.0, 3.0, 100.0, 1.0, 2.0)
	f.Add(45.0, 10.0, 1.0, 7.5, 0.0, 0.0)

	f.Fuzz(func(t *testing.T, focus, idle, switchRate, target, avg, peak float64) {
		for _, v := range []float64{focus, idle, switchRate, target, avg, peak} {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e6 {
				t.Skip()
			}
		}
		days := make([]DayOutlook, 3)
		for i := range days {
			days[i] = DayOutlook{
				Date:           day0.AddDate(0, 0, i),
				FocusMinutes:   focus * float64(i+1) / 2,
				IdleMinutes:    idle,
				FileSwitchRate: switchRate,
			}
		}
		profile := schema.WorkProfile{AvgWorkdayMinutes: 480, AvgDailyHours: avg, MaxDailyHours: peak, DaysAnalyzed: 10}

		plan := PlanCapacity(days, profile, target)
		if plan.FeasibilityScore < 0 || plan.FeasibilityScore > 100 {
			t.Fatalf("feasibility %.2f outside [0, 100]", plan.FeasibilityScore)
		}
		if target <= 0 && !plan.Feasible {
			t.Fatalf("target %.2f must be feasible", target)
		}
		for _, d := range plan.Days {
			if d.AllocatedHours > d.AvailableHours {
				t.Fatalf("allocated %.1f exceeds available %.1f", d.AllocatedHours, d.AvailableHours)
			}
			if d.AvailableHours < 0 || d.AvailableHours > 10 {
				t.Fatalf("available %.1f outside [0, 10]", d.AvailableHours)
			}
		}
	})
}

func FuzzScheduleDay(f *testing.F) {
	f.Add(5.0, 9, 17, 0.5)
	f.Add(0.3, 22, 2, 0.9)
	f.Add(12.0, 0, 0, 0.1)

	f.Fuzz(func(t *testing.T, allocated float64, start, end int, score float64) {
		if math.IsNaN(allocated) || allocated > 24 || math.IsNaN(score) {
			t.Skip()
		}
		hours := WorkHours(start%48, end%48)
		slots, unscheduled := ScheduleDay(flatCurve(score), allocated, hours)
		if len(slots) > len(hours) {
			t.Fatalf("%d slots for %d hours", len(slots), len(hours))
		}
		var total float64
		seen := map[int]bool{}
		for _, s := range slots {
			if seen[s.Hour] {
				t.Fatalf("hour %d scheduled twice", s.Hour)
			}
			seen[s.Hour] = true
			if s.DurationHours > 1 {
				t.Fatalf("slot of %.2f hours", s.DurationHours)
			}
			total += s.DurationHours
		}
		if total > allocated+0.05 {
			t.Fatalf("scheduled %.2f hours of %.2f", total, allocated)
		}
		if allocated > 0 && math.Abs(total+unscheduled-allocated) > 0.05 {
			t.Fatalf("scheduled %.2f plus unscheduled %.2f does not add up to %.2f", total, unscheduled, allocated)
		}
	})
}
