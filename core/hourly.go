package core

import (
	"math"
	"sort"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// HoursPerDay is the resolution of an hourly curve.
const HoursPerDay = 24

// Hourly score weights and defaults.
const (
	hourTotalWeight   = 0.4
	hourAvgWeight     = 0.4
	hourCountWeight   = 0.2
	maxSessionMinutes = 60.0
	maxSessionCount   = 10.0
	emptyHourScore    = 0.1
)

// HourlyCurve holds a productivity score in [0, 1] for each hour of a day.
type HourlyCurve [HoursPerDay]float64

// taskRule is a task archetype with its share of the day and minimum hour score.
type taskRule struct {
	task      schema.TaskType
	share     float64
	threshold float64
}

// taskRules are ordered by descending threshold.
var taskRules = []taskRule{
	{schema.DeepWorkTask, 0.40, 0.65},
	{schema.CodeReviewTask, 0.20, 0.50},
	{schema.DebuggingTask, 0.20, 0.45},
	{schema.DocumentationTask, 0.10, 0.40},
	{schema.PlanningTask, 0.10, 0.20},
}

// BuildHourlyCurve scores each hour from sessions started on the given weekday (Monday = 0).
// Hours without sessions take the mean of their measured neighbours, else a low constant.
func BuildHourlyCurve(sessions []schema.FocusSession, weekday int) HourlyCurve {
	var total, count [HoursPerDay]float64
	for _, s := range sessions {
		if schema.WeekdayIndex(s.Start) != weekday || s.DurationMinutes <= 0 {
			continue
		}
		h := s.Start.Hour()
		total[h] += s.DurationMinutes
		count[h]++
	}

	var maxTotal float64
	for _, t := range total {
		maxTotal = math.Max(maxTotal, t)
	}

	var curve HourlyCurve
	var present [HoursPerDay]bool
	for h := range HoursPerDay {
		if count[h] == 0 {
			continue
		}
		avg := total[h] / count[h]
		curve[h] = hourTotalWeight*(total[h]/maxTotal) +
			hourAvgWeight*math.Min(avg, maxSessionMinutes)/maxSessionMinutes +
			hourCountWeight*math.Min(count[h], maxSessionCount)/maxSessionCount
		present[h] = true
	}

	filled := curve
	for h := range HoursPerDay {
		if present[h] {
			continue
		}
		var sum, n float64
		if h > 0 && present[h-1] {
			sum += curve[h-1]
			n++
		}
		if h < HoursPerDay-1 && present[h+1] {
			sum += curve[h+1]
			n++
		}
		if n > 0 {
			filled[h] = sum / n
		} else {
			filled[h] = emptyHourScore
		}
	}
	return filled
}

// SlotQuality labels an hour score.
func SlotQuality(score float64) schema.SlotQuality {
	switch {
	case score >= 0.75:
		return schema.PeakSlot
	case score >= 0.55:
		return schema.HighSlot
	case score >= 0.35:
		return schema.ModerateSlot
	default:
		return schema.LowSlot
	}
}

// WorkHours lists the hours of a work window starting at start and ending before end.
// Windows that cross midnight wrap around.
func WorkHours(start, end int) []int {
	start = ((start % HoursPerDay) + HoursPerDay) % HoursPerDay
	end = ((end % HoursPerDay) + HoursPerDay) % HoursPerDay
	n := (end - start + HoursPerDay) % HoursPerDay
	if n == 0 {
		n = HoursPerDay
	}
	hours := make([]int, n)
	for i := range n {
		hours[i] = (start + i) % HoursPerDay
	}
	return hours
}

// ScheduleDay assigns task archetypes to the best hours of the work window.
// Tasks take hours in descending threshold order; a task whose best remaining hour
// scores below its threshold passes its budget to the next task. Planning accepts any hour.
// Hours that do not fit in the work window are returned as unscheduled.
func ScheduleDay(curve HourlyCurve, allocatedHours float64, hours []int) ([]schema.HourSlot, float64) {
	if allocatedHours <= 0 || math.IsNaN(allocatedHours) {
		return nil, 0
	}
	if len(hours) == 0 {
		return nil, schema.Round2(allocatedHours)
	}

	remaining := append([]int(nil), hours...)
	sort.SliceStable(remaining, func(i, j int) bool {
		return curve[remaining[i]] > curve[remaining[j]]
	})

	const eps = 1e-9
	var slots []schema.HourSlot
	var carry float64
	for i, rule := range taskRules {
		budget := allocatedHours*rule.share + carry
		carry = 0
		last := i == len(taskRules)-1
		for budget > eps && len(remaining) > 0 {
			h := remaining[0]
			score := curve[h]
			if !last && score < rule.threshold {
				break
			}
			duration := math.Min(1, budget)
			timeRange, period := schema.FormatTimeWindow(h, h+1)
			slots = append(slots, schema.HourSlot{
				Hour:          h,
				TimeRange:     timeRange,
				Period:        period,
				Task:          rule.task,
				Score:         schema.Round2(score),
				Quality:       SlotQuality(score),
				DurationHours: schema.Round2(duration),
			})
			remaining = remaining[1:]
			budget -= duration
		}
		carry = budget
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Hour < slots[j].Hour
	})
	if carry <= eps {
		carry = 0
	}
	return slots, schema.Round2(carry)
}
