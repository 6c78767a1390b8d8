package habit

import (
	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

const MaxCalendarDays = 366

type DayStatus string

const (
	DayStatusNone     DayStatus = "none"
	DayStatusComplete DayStatus = "complete"
	DayStatusPartial  DayStatus = "partial"
	DayStatusMissed   DayStatus = "missed"
)

// StatusOf derives the day status from the habits listed for that day.
func StatusOf(entries []CalendarEntry) DayStatus {
	if len(entries) == 0 {
		return DayStatusNone
	}

	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}

	switch completed {
	case len(entries):
		return DayStatusComplete
	case 0:
		return DayStatusMissed
	default:
		return DayStatusPartial
	}
}

type dayKey struct {
	habitID uuid.UUID
	date    util.Date
}

// BuildCalendarDays lists, for every day in [start, end], the habits applicable that day
// and whether each was completed.
func BuildCalendarDays(habits []Habit, completions []HabitCompletion, start, end util.Date) []CalendarDay {
	done := make(map[dayKey]bool, len(completions))
	for _, c := range completions {
		if c.Completed {
			done[dayKey{habitID: c.HabitID, date: c.Date}] = true
		}
	}

	days := make([]CalendarDay, 0, util.DaysBetween(start, end)+1)
	util.EachDay(start, end, func(d util.Date) bool {
		entries := make([]CalendarEntry, 0, len(habits))
		for i := range habits {
			h := &habits[i]
			if !IsApplicable(d, h) {
				continue
			}
			entries = append(entries, CalendarEntry{
				HabitID:   h.ID,
				HabitName: h.Name,
				Completed: done[dayKey{habitID: h.ID, date: d}],
			})
		}
		days = append(days, CalendarDay{Date: d, Status: StatusOf(entries), Habits: entries})
		return true
	})
	return days
}

func validateRange(start, end util.Date) error {
	if start.IsZero() || end.IsZero() {
		return invalid("start", "start and end are required")
	}
	if end.Before(start) {
		return invalid("end", "must not be before start")
	}
	if util.DaysBetween(start, end)+1 > MaxCalendarDays {
		return invalid("end", "range must not exceed %d days", MaxCalendarDays)
	}
	return nil
}
