package weekly_review

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/habit"
)

// ComputeMetrics folds calendar days into per-habit and overall completion figures.
// Habits are listed in the order they first appear.
func ComputeMetrics(days []habit.CalendarDay) ReviewMetrics {
	index := make(map[uuid.UUID]int)
	m := ReviewMetrics{Habits: []HabitWeekMetrics{}}

	for _, day := range days {
		for _, entry := range day.Habits {
			i, ok := index[entry.HabitID]
			if !ok {
				i = len(m.Habits)
				index[entry.HabitID] = i
				m.Habits = append(m.Habits, HabitWeekMetrics{HabitID: entry.HabitID, Name: entry.HabitName})
			}
			m.Habits[i].ApplicableDays++
			m.ApplicableDays++
			if entry.Completed {
				m.Habits[i].CompletedDays++
				m.CompletedDays++
			}
		}
	}

	m.HabitsTracked = len(m.Habits)
	m.CompletionRate = habit.Percentage(m.CompletedDays, m.ApplicableDays)
	return m
}
