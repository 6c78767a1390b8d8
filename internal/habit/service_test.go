package habit

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-12 is a Monday.
var monday = util.NewDate(2026, time.January, 12)

func TestCreateHabit(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	t.Run("Defaults", func(t *testing.T) {
		h := createHabit(t, svc, userID, CreateHabitDTO{Name: "  Read  ", Frequency: FrequencyWeekly, CustomDays: []int{5, 1}})
		assert.NotEqual(t, uuid.Nil, h.ID)
		assert.Equal(t, "Read", h.Name)
		assert.Equal(t, 1, h.TargetCount)
		assert.Equal(t, StatusActive, h.Status)
		assert.Equal(t, []Weekday{1, 5}, h.CustomDays.Days())

		stored, err := svc.GetHabit(t.Context(), userID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, h.CustomDays, stored.CustomDays)
		assert.Equal(t, FrequencyWeekly, stored.Frequency)
	})

	t.Run("Validation", func(t *testing.T) {
		start := monday
		end := monday.AddDays(-1)
		cases := map[string]CreateHabitDTO{
			"EmptyName":        {Name: "   ", Frequency: FrequencyDaily},
			"BadFrequency":     {Name: "x", Frequency: "monthly"},
			"DayOutOfRange":    {Name: "x", Frequency: FrequencyCustom, CustomDays: []int{7}},
			"NegativeDay":      {Name: "x", Frequency: FrequencyCustom, CustomDays: []int{-1}},
			"ZeroTarget":       {Name: "x", Frequency: FrequencyDaily, TargetCount: intPtr(0)},
			"EndBeforeStart":   {Name: "x", Frequency: FrequencyDaily, StartDate: &start, EndDate: &end},
			"MissingFrequency": {Name: "x"},
		}
		for name, dto := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.CreateHabit(t.Context(), userID, dto)
				assert.True(t, IsValidationError(err), "got %v", err)
			})
		}
	})
}

func TestHabitOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner, other := uuid.New(), uuid.New()
	h := createHabit(t, svc, owner, CreateHabitDTO{})
	subs := createSubHabits(t, svc, owner, h.ID, "stretch")

	_, err := svc.GetHabit(t.Context(), other, h.ID)
	assert.ErrorIs(t, err, ErrHabitNotFound)

	_, err = svc.UpdateHabit(t.Context(), other, h.ID, UpdateHabitDTO{})
	assert.ErrorIs(t, err, ErrHabitNotFound)

	assert.ErrorIs(t, svc.DeleteHabit(t.Context(), other, h.ID), ErrHabitNotFound)

	_, err = svc.SetHabitCompletion(t.Context(), other, h.ID, monday, true)
	assert.ErrorIs(t, err, ErrHabitNotFound)

	_, err = svc.SetSubHabitCompletion(t.Context(), other, subs[0].ID, monday, true)
	assert.ErrorIs(t, err, ErrSubHabitNotFound)

	_, err = svc.CreateSubHabit(t.Context(), other, h.ID, CreateSubHabitDTO{Name: "sneaky"})
	assert.ErrorIs(t, err, ErrHabitNotFound)

	assert.ErrorIs(t, svc.DeleteSubHabit(t.Context(), other, subs[0].ID), ErrSubHabitNotFound)

	_, err = svc.GetHistory(t.Context(), other, h.ID, 30, monday)
	assert.ErrorIs(t, err, ErrHabitNotFound)

	habits, err := svc.ListHabits(t.Context(), other)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestUpdateAndPauseHabit(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{})

	name := "Evening routine"
	freq := FrequencyCustom
	days := []int{0, 6}
	updated, err := svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{
		Name:        &name,
		Frequency:   &freq,
		CustomDays:  &days,
		TargetCount: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, []Weekday{0, 6}, updated.CustomDays.Days())
	assert.Equal(t, 2, updated.TargetCount)

	paused, err := svc.SetStatus(t.Context(), userID, h.ID, StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, paused.Status)

	resumed, err := svc.SetStatus(t.Context(), userID, h.ID, StatusActive)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, resumed.Status)

	_, err = svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{TargetCount: intPtr(0)})
	assert.True(t, IsValidationError(err))
}

func TestUpdateHabitClearsDateBounds(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	start, end := monday, monday.AddDays(7)
	h := createHabit(t, svc, userID, CreateHabitDTO{StartDate: &start, EndDate: &end})

	t.Run("ClearEnd", func(t *testing.T) {
		_, err := svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{ClearEndDate: true})
		require.NoError(t, err)

		stored, err := svc.GetHabit(t.Context(), userID, h.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.EndDate)
		require.NotNil(t, stored.StartDate)
		assert.Equal(t, start, *stored.StartDate)
		assert.True(t, IsApplicable(monday.AddDays(30), stored))
	})

	t.Run("DateInSameRequestWins", func(t *testing.T) {
		later := monday.AddDays(2)
		updated, err := svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{StartDate: &later, ClearStartDate: true})
		require.NoError(t, err)
		require.NotNil(t, updated.StartDate)
		assert.Equal(t, later, *updated.StartDate)
	})

	t.Run("ClearStart", func(t *testing.T) {
		_, err := svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{ClearStartDate: true})
		require.NoError(t, err)

		stored, err := svc.GetHabit(t.Context(), userID, h.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.StartDate)
		assert.True(t, IsApplicable(monday.AddDays(-30), stored))
	})

	t.Run("NullLeavesBoundsAlone", func(t *testing.T) {
		_, err := svc.UpdateHabit(t.Context(), userID, h.ID, UpdateHabitDTO{EndDate: &end})
		require.NoError(t, err)

		var dto UpdateHabitDTO
		require.NoError(t, json.Unmarshal([]byte(`{"end_date":null}`), &dto))
		updated, err := svc.UpdateHabit(t.Context(), userID, h.ID, dto)
		require.NoError(t, err)
		require.NotNil(t, updated.EndDate)
		assert.Equal(t, end, *updated.EndDate)
	})
}

func TestSubHabitThresholdAggregation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{TargetCount: intPtr(2)})
	subs := createSubHabits(t, svc, userID, h.ID, "a", "b", "c")

	parent := func() *HabitCompletion {
		c, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday)
		require.NoError(t, err)
		return c
	}

	t.Run("BelowThresholdCreatesNoParent", func(t *testing.T) {
		got, err := svc.SetSubHabitCompletion(ctx, userID, subs[0].ID, monday, true)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(fixedNow))
		assert.Nil(t, parent())
	})

	t.Run("ReachingThresholdCompletesParent", func(t *testing.T) {
		_, err := svc.SetSubHabitCompletion(ctx, userID, subs[1].ID, monday, true)
		require.NoError(t, err)
		p := parent()
		require.NotNil(t, p)
		assert.True(t, p.Completed)
		assert.NotNil(t, p.CompletedAt)
	})

	t.Run("AboveThresholdKeepsParentCompleted", func(t *testing.T) {
		_, err := svc.SetSubHabitCompletion(ctx, userID, subs[2].ID, monday, true)
		require.NoError(t, err)
		assert.True(t, parent().Completed)
	})

	t.Run("FallingBelowThresholdClearsParent", func(t *testing.T) {
		_, err := svc.SetSubHabitCompletion(ctx, userID, subs[2].ID, monday, false)
		require.NoError(t, err)
		assert.True(t, parent().Completed)

		got, err := svc.SetSubHabitCompletion(ctx, userID, subs[1].ID, monday, false)
		require.NoError(t, err)
		assert.False(t, got.Completed)
		assert.Nil(t, got.CompletedAt)

		p := parent()
		require.NotNil(t, p)
		assert.False(t, p.Completed)
		assert.Nil(t, p.CompletedAt)
	})

	t.Run("OtherDaysUntouched", func(t *testing.T) {
		c, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday.AddDays(1))
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestSubHabitToggleIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{})
	subs := createSubHabits(t, svc, userID, h.ID, "only")

	first, err := svc.SetSubHabitCompletion(ctx, userID, subs[0].ID, monday, true)
	require.NoError(t, err)
	second, err := svc.SetSubHabitCompletion(ctx, userID, subs[0].ID, monday, true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := repo.CountCompletedSubHabits(ctx, userID, h.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	completions, err := repo.ListSubHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, monday, monday)
	require.NoError(t, err)
	assert.Len(t, completions, 1)

	p, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Completed)
}

func TestHabitCompletionCascades(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{TargetCount: intPtr(3)})
	subs := createSubHabits(t, svc, userID, h.ID, "a", "b", "c")

	_, err := svc.SetSubHabitCompletion(ctx, userID, subs[0].ID, monday, true)
	require.NoError(t, err)

	got, err := svc.SetHabitCompletion(ctx, userID, h.ID, monday, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	again, err := svc.SetHabitCompletion(ctx, userID, h.ID, monday, true)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.True(t, again.CompletedAt.Equal(*got.CompletedAt))

	count, err := repo.CountCompletedSubHabits(ctx, userID, h.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = svc.SetHabitCompletion(ctx, userID, h.ID, monday, false)
	require.NoError(t, err)

	count, err = repo.CountCompletedSubHabits(ctx, userID, h.ID, monday)
	require.NoError(t, err)
	assert.Zero(t, count)

	subCompletions, err := repo.ListSubHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, monday, monday)
	require.NoError(t, err)
	require.Len(t, subCompletions, 3)
	for _, c := range subCompletions {
		assert.False(t, c.Completed)
		assert.Nil(t, c.CompletedAt)
	}
}

func TestHabitWithoutSubHabits(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{})

	got, err := svc.SetHabitCompletion(ctx, userID, h.ID, monday, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	stored, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, monday, stored.Date)
}

func TestTogglesRejectedOffSchedule(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{Frequency: FrequencyCustom, CustomDays: []int{1}})
	subs := createSubHabits(t, svc, userID, h.ID, "a")
	tuesday := monday.AddDays(1)

	_, err := svc.SetHabitCompletion(ctx, userID, h.ID, tuesday, true)
	assert.ErrorIs(t, err, ErrNotScheduled)
	assert.True(t, IsValidationError(err))

	_, err = svc.SetSubHabitCompletion(ctx, userID, subs[0].ID, tuesday, true)
	assert.ErrorIs(t, err, ErrNotScheduled)

	c, err := repo.FindHabitCompletion(ctx, userID, h.ID, tuesday)
	require.NoError(t, err)
	assert.Nil(t, c)
}

// The test database has a single connection, so these toggles are serialized and
// LockHabitDay is a no-op; the advisory lock itself only engages on postgres. What is
// checked here is that the parent always ends up matching a full recount.
func TestConcurrentSubHabitToggles(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{TargetCount: intPtr(3)})
	subs := createSubHabits(t, svc, userID, h.ID, "a", "b", "c", "d", "e")
	a, b, c, d, e := subs[0].ID, subs[1].ID, subs[2].ID, subs[3].ID, subs[4].ID

	toggle := func(t *testing.T, states map[uuid.UUID]bool) {
		t.Helper()
		var wg sync.WaitGroup
		errs := make(chan error, len(states))
		for id, completed := range states {
			wg.Add(1)
			go func(id uuid.UUID, completed bool) {
				defer wg.Done()
				_, err := svc.SetSubHabitCompletion(ctx, userID, id, monday, completed)
				errs <- err
			}(id, completed)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}

	assertParent := func(t *testing.T, wantCount int64, wantCompleted bool) {
		t.Helper()
		count, err := repo.CountCompletedSubHabits(ctx, userID, h.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, wantCount, count)

		p, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, wantCompleted, p.Completed)
		assert.Equal(t, wantCompleted, p.CompletedAt != nil)
	}

	toggle(t, map[uuid.UUID]bool{a: true, b: true, c: true, d: true})
	assertParent(t, 4, true)

	t.Run("MixedTogglesLandOnThreshold", func(t *testing.T) {
		toggle(t, map[uuid.UUID]bool{a: false, b: false, e: true})
		assertParent(t, 3, true)
	})

	t.Run("MixedTogglesDropBelowThreshold", func(t *testing.T) {
		toggle(t, map[uuid.UUID]bool{c: false, d: false, a: true})
		assertParent(t, 2, false)
	})
}

func TestDeleteCascades(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{})
	subs := createSubHabits(t, svc, userID, h.ID, "a", "b")

	_, err := svc.SetHabitCompletion(ctx, userID, h.ID, monday, true)
	require.NoError(t, err)

	t.Run("SubHabit", func(t *testing.T) {
		require.NoError(t, svc.DeleteSubHabit(ctx, userID, subs[0].ID))

		remaining, err := repo.FindSubHabits(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, subs[1].ID, remaining[0].ID)

		completions, err := repo.ListSubHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, monday, monday)
		require.NoError(t, err)
		require.Len(t, completions, 1)
		assert.Equal(t, subs[1].ID, completions[0].SubHabitID)

		p, err := repo.FindHabitCompletion(ctx, userID, h.ID, monday)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.Completed)
	})

	t.Run("Habit", func(t *testing.T) {
		require.NoError(t, svc.DeleteHabit(ctx, userID, h.ID))

		_, err := svc.GetHabit(ctx, userID, h.ID)
		assert.ErrorIs(t, err, ErrHabitNotFound)

		subsLeft, err := repo.FindSubHabits(ctx, h.ID)
		require.NoError(t, err)
		assert.Empty(t, subsLeft)

		completions, err := repo.ListHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, monday, monday)
		require.NoError(t, err)
		assert.Empty(t, completions)

		subCompletions, err := repo.ListSubHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, monday, monday)
		require.NoError(t, err)
		assert.Empty(t, subCompletions)
	})
}

func TestSubHabitOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{})

	for _, dto := range []CreateSubHabitDTO{{Name: "third", Order: 2}, {Name: "first", Order: 0}, {Name: "second", Order: 1}} {
		_, err := svc.CreateSubHabit(ctx, userID, h.ID, dto)
		require.NoError(t, err)
	}

	stored, err := svc.GetHabit(ctx, userID, h.ID)
	require.NoError(t, err)
	require.Len(t, stored.SubHabits, 3)
	assert.Equal(t, "first", stored.SubHabits[0].Name)
	assert.Equal(t, "second", stored.SubHabits[1].Name)
	assert.Equal(t, "third", stored.SubHabits[2].Name)

	newName := "renamed"
	sub, err := svc.UpdateSubHabit(ctx, userID, stored.SubHabits[2].ID, UpdateSubHabitDTO{Name: &newName, Order: intPtr(-1)})
	require.NoError(t, err)
	assert.Equal(t, "renamed", sub.Name)

	stored, err = svc.GetHabit(ctx, userID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.SubHabits[0].Name)

	_, err = svc.CreateSubHabit(ctx, userID, h.ID, CreateSubHabitDTO{Name: " "})
	assert.True(t, IsValidationError(err))
}

func TestGetHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()
	h := createHabit(t, svc, userID, CreateHabitDTO{Frequency: FrequencyCustom, CustomDays: []int{1, 2, 3, 4, 5}})

	prevFri := monday.AddDays(-3)
	thursday := monday.AddDays(3)
	for _, d := range []util.Date{prevFri, monday, monday.AddDays(1), monday.AddDays(2), thursday} {
		_, err := svc.SetHabitCompletion(ctx, userID, h.ID, d, true)
		require.NoError(t, err)
	}

	history, err := svc.GetHistory(ctx, userID, h.ID, 6, thursday)
	require.NoError(t, err)
	assert.Equal(t, 5, history.Streak)
	assert.Equal(t, 5, history.ApplicableDays)
	assert.Equal(t, 5, history.CompletedDays)
	assert.Equal(t, float64(100), history.CompletionPercentage)
	assert.Len(t, history.Completions, 5)

	history, err = svc.GetHistory(ctx, userID, h.ID, 7, thursday)
	require.NoError(t, err)
	assert.Equal(t, 5, history.Streak)
	assert.Equal(t, 6, history.ApplicableDays)
	assert.Equal(t, 83.33, history.CompletionPercentage)

	history, err = svc.GetHistory(ctx, userID, h.ID, 30, thursday.AddDays(1))
	require.NoError(t, err)
	assert.Zero(t, history.Streak)

	_, err = svc.GetHistory(ctx, userID, h.ID, MaxWindowDays+1, thursday)
	assert.True(t, IsValidationError(err))
}

func TestTodayAndCalendar(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := t.Context()
	userID := uuid.New()

	daily := createHabit(t, svc, userID, CreateHabitDTO{Name: "Read", TargetCount: intPtr(1)})
	subs := createSubHabits(t, svc, userID, daily.ID, "chapter", "notes")
	mondays := createHabit(t, svc, userID, CreateHabitDTO{Name: "Plan week", Frequency: FrequencyCustom, CustomDays: []int{1}})
	paused := createHabit(t, svc, userID, CreateHabitDTO{Name: "Meditate"})
	_, err := svc.SetStatus(ctx, userID, paused.ID, StatusPaused)
	require.NoError(t, err)

	_, err = svc.SetSubHabitCompletion(ctx, userID, subs[1].ID, monday, true)
	require.NoError(t, err)

	t.Run("Today", func(t *testing.T) {
		today, err := svc.Today(ctx, userID, monday)
		require.NoError(t, err)
		require.Len(t, today.Habits, 2)

		read := today.Habits[0]
		assert.Equal(t, daily.ID, read.ID)
		assert.True(t, read.Completed)
		assert.Equal(t, 1, read.CompletedSubHabits)
		require.Len(t, read.SubHabits, 2)
		assert.False(t, read.SubHabits[0].Completed)
		assert.True(t, read.SubHabits[1].Completed)

		assert.Equal(t, mondays.ID, today.Habits[1].ID)
		assert.False(t, today.Habits[1].Completed)

		tuesday, err := svc.Today(ctx, userID, monday.AddDays(1))
		require.NoError(t, err)
		require.Len(t, tuesday.Habits, 1)
		assert.Equal(t, daily.ID, tuesday.Habits[0].ID)
	})

	t.Run("Calendar", func(t *testing.T) {
		cal, err := svc.BuildCalendar(ctx, userID, monday, monday.AddDays(1))
		require.NoError(t, err)
		require.Len(t, cal.Days, 2)

		assert.Equal(t, DayStatusPartial, cal.Days[0].Status)
		assert.Len(t, cal.Days[0].Habits, 3)
		assert.Equal(t, DayStatusMissed, cal.Days[1].Status)
		assert.Len(t, cal.Days[1].Habits, 2)

		_, err = svc.BuildCalendar(ctx, userID, monday, monday.AddDays(-1))
		assert.True(t, IsValidationError(err))
	})
}
