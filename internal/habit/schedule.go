package habit

import (
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

// IsApplicable reports whether h is due on date. Status is not consulted.
func IsApplicable(date util.Date, h *Habit) bool {
	if h == nil {
		return false
	}
	if h.StartDate != nil && !h.StartDate.IsZero() && date.Before(*h.StartDate) {
		return false
	}
	if h.EndDate != nil && !h.EndDate.IsZero() && date.After(*h.EndDate) {
		return false
	}

	weekday := WeekdayOf(date.Time)
	switch h.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return h.CustomDays.IsEmpty() || h.CustomDays.Contains(weekday)
	case FrequencyCustom:
		return !h.CustomDays.IsEmpty() && h.CustomDays.Contains(weekday)
	default:
		return false
	}
}

// ApplicableHabits filters habits down to the ones due on date, keeping their order.
func ApplicableHabits(habits []Habit, date util.Date) []Habit {
	out := make([]Habit, 0, len(habits))
	for i := range habits {
		if IsApplicable(date, &habits[i]) {
			out = append(out, habits[i])
		}
	}
	return out
}
