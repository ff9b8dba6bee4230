package core

import (
	"context"
	"math"
	"sort"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// Pattern boundaries in hours of day.
const (
	earlyBirdBefore = 8
	nightOwlEndFrom = 21
	nightOwlStartAt = 12
)

// DeriveWorkProfile builds a work profile from measured days and focus sessions.
// Without sessions the work window defaults to 9 to 17.
func DeriveWorkProfile(history []schema.DailyRecord, sessions []schema.FocusSession, workdayMinutes float64) schema.WorkProfile {
	measured := measuredOnly(history)
	profile := schema.WorkProfile{
		AvgWorkdayMinutes: workdayMinutes,
		TypicalStartHour:  9,
		TypicalEndHour:    17,
		PatternType:       schema.Standard,
		DaysAnalyzed:      len(measured),
	}
	if profile.AvgWorkdayMinutes <= 0 {
		profile.AvgWorkdayMinutes = schema.DefaultWorkdayMinutes
	}

	hours := make([]float64, len(measured))
	for i, r := range measured {
		hours[i] = r.FocusMinutes / 60
		profile.MaxDailyHours = math.Max(profile.MaxDailyHours, hours[i])
	}
	mean, std := meanStd(hours)
	profile.AvgDailyHours = schema.Round2(mean)
	profile.MaxDailyHours = schema.Round2(profile.MaxDailyHours)
	profile.BestWeekHours = schema.Round2(bestWeekHours(measured))
	profile.StddevHours = schema.Round2(std)

	if len(sessions) == 0 {
		return profile
	}

	type span struct{ first, last int }
	byDay := make(map[string]*span)
	for _, s := range sessions {
		key := schema.FormatDate(s.Start)
		start := s.Start.Hour()
		end := s.End().Hour()
		if !sameDay(s) {
			end = HoursPerDay - 1
		}
		if sp, ok := byDay[key]; ok {
			sp.first = min(sp.first, start)
			sp.last = max(sp.last, end)
		} else {
			byDay[key] = &span{first: start, last: end}
		}
	}

	var starts, ends []int
	for _, sp := range byDay {
		starts = append(starts, sp.first)
		ends = append(ends, sp.last+1)
	}
	profile.TypicalStartHour = medianInt(starts)
	profile.TypicalEndHour = min(medianInt(ends), HoursPerDay)
	profile.PatternType = classifyPattern(profile.TypicalStartHour, profile.TypicalEndHour)
	if window := profile.TypicalEndHour - profile.TypicalStartHour; window > 0 {
		profile.AvgWorkdayMinutes = float64(window * 60)
	}
	return profile
}

// bestWeekHours is the highest focus total over seven consecutive calendar days.
// Histories spanning less than a week have none.
func bestWeekHours(measured []schema.DailyRecord) float64 {
	if len(measured) == 0 {
		return 0
	}
	if schema.DaysBetween(schema.Day(measured[0].Date), schema.Day(measured[len(measured)-1].Date)) < 6 {
		return 0
	}
	var best float64
	for i, first := range measured {
		var sum float64
		for _, r := range measured[i:] {
			if schema.DaysBetween(schema.Day(first.Date), schema.Day(r.Date)) > 6 {
				break
			}
			sum += r.FocusMinutes / 60
		}
		best = math.Max(best, sum)
	}
	return best
}

func sameDay(s schema.FocusSession) bool {
	return schema.Day(s.Start).Equal(schema.Day(s.End()))
}

func classifyPattern(start, end int) schema.PatternType {
	switch {
	case start < earlyBirdBefore:
		return schema.EarlyBird
	case end >= nightOwlEndFrom || start >= nightOwlStartAt:
		return schema.NightOwl
	default:
		return schema.Standard
	}
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return int(math.Round(float64(sorted[mid-1]+sorted[mid]) / 2))
}

// DerivedProfiles is a ProfileSource that derives profiles from stored history and sessions.
type DerivedProfiles struct {
	History        contract.HistorySource
	Sessions       contract.SessionSource
	HistoryDays    int
	SessionDays    int
	WorkdayMinutes float64
}

var _ contract.ProfileSource = &DerivedProfiles{} // Compile-time check

// FetchProfile derives the work profile of a user.
func (p *DerivedProfiles) FetchProfile(ctx context.Context, userID string) (schema.WorkProfile, error) {
	history, err := p.History.FetchHistory(ctx, userID, p.HistoryDays)
	if err != nil {
		return schema.WorkProfile{}, wrapError(KindProfileUnavailable, err, "fetch history for profile")
	}
	var sessions []schema.FocusSession
	if p.Sessions != nil {
		sessions, err = p.Sessions.FetchSessions(ctx, userID, p.SessionDays)
		if err != nil {
			return schema.WorkProfile{}, wrapError(KindProfileUnavailable, err, "fetch sessions for profile")
		}
	}
	return DeriveWorkProfile(history, sessions, p.WorkdayMinutes), nil
}
