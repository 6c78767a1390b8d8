package habit

import (
	"math"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 366
)

type Stats struct {
	ApplicableDays int     `json:"applicable_days"`
	CompletedDays  int     `json:"completed_days"`
	Percentage     float64 `json:"completion_percentage"`
}

// CurrentStreak walks back from today over at most windowDays days. Days the habit does
// not apply to are skipped; the first applicable day without a completion ends the run.
func CurrentStreak(h *Habit, today util.Date, windowDays int, done func(util.Date) bool) int {
	streak := 0
	oldest := today.AddDays(-windowDays)
	for d := today; !d.Before(oldest); d = d.AddDays(-1) {
		if !IsApplicable(d, h) {
			continue
		}
		if !done(d) {
			break
		}
		streak++
	}
	return streak
}

// CompletionStats scans [today-windowDays, today] and reports how many applicable days
// were completed.
func CompletionStats(h *Habit, today util.Date, windowDays int, done func(util.Date) bool) Stats {
	var stats Stats
	util.EachDay(today.AddDays(-windowDays), today, func(d util.Date) bool {
		if IsApplicable(d, h) {
			stats.ApplicableDays++
			if done(d) {
				stats.CompletedDays++
			}
		}
		return true
	})
	stats.Percentage = Percentage(stats.CompletedDays, stats.ApplicableDays)
	return stats
}

// Percentage returns completed/applicable*100 rounded to two decimals, 0 when nothing applied.
func Percentage(completed, applicable int) float64 {
	if applicable == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(applicable)*100*100) / 100
}

// CompletedOn indexes the completed rows of one habit by day.
func CompletedOn(habitID uuid.UUID, completions []HabitCompletion) func(util.Date) bool {
	days := make(map[util.Date]struct{}, len(completions))
	for _, c := range completions {
		if c.HabitID == habitID && c.Completed {
			days[c.Date] = struct{}{}
		}
	}
	return func(d util.Date) bool {
		_, ok := days[d]
		return ok
	}
}

func validateWindow(windowDays int) error {
	if windowDays < 0 || windowDays > MaxWindowDays {
		return invalid("days", "must be between 0 and %d", MaxWindowDays)
	}
	return nil
}
