package habit

import (
	"testing"
	"time"

	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/stretchr/testify/assert"
)

func mustDays(t *testing.T, days ...Weekday) CustomDays {
	t.Helper()
	set, err := NewCustomDays(days...)
	if err != nil {
		t.Fatalf("invalid days %v: %v", days, err)
	}
	return set
}

func datePtr(d util.Date) *util.Date {
	return &d
}

func TestIsApplicable(t *testing.T) {
	// 2026-01-12 is a Monday.
	monday := util.NewDate(2026, time.January, 12)
	tuesday := monday.AddDays(1)
	sunday := monday.AddDays(-1)

	cases := []struct {
		name  string
		habit Habit
		date  util.Date
		want  bool
	}{
		{"DailyAlwaysApplies", Habit{Frequency: FrequencyDaily}, sunday, true},
		{"DailyIgnoresCustomDays", Habit{Frequency: FrequencyDaily, CustomDays: mustDays(t, 3)}, monday, true},
		{"WeeklyEmptyMeansEveryDay", Habit{Frequency: FrequencyWeekly}, tuesday, true},
		{"WeeklyOnListedDay", Habit{Frequency: FrequencyWeekly, CustomDays: mustDays(t, 1, 3, 5)}, monday, true},
		{"WeeklyOffListedDay", Habit{Frequency: FrequencyWeekly, CustomDays: mustDays(t, 1, 3, 5)}, tuesday, false},
		{"CustomEmptyNeverApplies", Habit{Frequency: FrequencyCustom}, monday, false},
		{"CustomOnListedDay", Habit{Frequency: FrequencyCustom, CustomDays: mustDays(t, 0)}, sunday, true},
		{"CustomOffListedDay", Habit{Frequency: FrequencyCustom, CustomDays: mustDays(t, 0)}, monday, false},
		{"BeforeStartDate", Habit{Frequency: FrequencyDaily, StartDate: datePtr(tuesday)}, monday, false},
		{"OnStartDate", Habit{Frequency: FrequencyDaily, StartDate: datePtr(monday)}, monday, true},
		{"OnEndDate", Habit{Frequency: FrequencyDaily, EndDate: datePtr(monday)}, monday, true},
		{"AfterEndDate", Habit{Frequency: FrequencyDaily, EndDate: datePtr(sunday)}, monday, false},
		{"PausedStillApplies", Habit{Frequency: FrequencyDaily, Status: StatusPaused}, monday, true},
		{"UnknownFrequency", Habit{Frequency: "monthly"}, monday, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.habit
			assert.Equal(t, tc.want, IsApplicable(tc.date, &h))
		})
	}

	assert.False(t, IsApplicable(monday, nil))
}

func TestApplicableHabitsKeepsOrder(t *testing.T) {
	monday := util.NewDate(2026, time.January, 12)
	habits := []Habit{
		{Name: "read", Frequency: FrequencyDaily},
		{Name: "gym", Frequency: FrequencyCustom, CustomDays: mustDays(t, 2, 4)},
		{Name: "stretch", Frequency: FrequencyWeekly, CustomDays: mustDays(t, 1)},
	}

	got := ApplicableHabits(habits, monday)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "read", got[0].Name)
		assert.Equal(t, "stretch", got[1].Name)
	}
}
