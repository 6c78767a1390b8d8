package habit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/cache"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/metrics"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/sirupsen/logrus"
)

const historyTTL = 5 * time.Minute

func habitIDs(habits []Habit) []uuid.UUID {
	ids := make([]uuid.UUID, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids
}

// Today lists the active habits due on today with their own and their sub-habits' state.
func (s *service) Today(ctx context.Context, userID uuid.UUID, today util.Date) (*TodayResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "date": today.String()})

	habits, err := s.repo.ListHabits(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list habits for today view")
		return nil, err
	}

	due := make([]Habit, 0, len(habits))
	for _, h := range ApplicableHabits(habits, today) {
		if h.Status == StatusActive {
			due = append(due, h)
		}
	}

	ids := habitIDs(due)
	completions, err := s.repo.ListHabitCompletionsInRange(ctx, userID, ids, today, today)
	if err != nil {
		log.WithError(err).Error("Failed to load habit completions for today view")
		return nil, err
	}
	subCompletions, err := s.repo.ListSubHabitCompletionsInRange(ctx, userID, ids, today, today)
	if err != nil {
		log.WithError(err).Error("Failed to load sub-habit completions for today view")
		return nil, err
	}

	parents := make(map[uuid.UUID]HabitCompletion, len(completions))
	for _, c := range completions {
		parents[c.HabitID] = c
	}
	subsDone := make(map[uuid.UUID]bool, len(subCompletions))
	for _, c := range subCompletions {
		subsDone[c.SubHabitID] = c.Completed
	}

	resp := &TodayResponse{Date: today, Habits: make([]TodayHabit, 0, len(due))}
	for _, h := range due {
		item := TodayHabit{
			ID:          h.ID,
			Name:        h.Name,
			Description: h.Description,
			Frequency:   h.Frequency,
			TargetCount: h.TargetCount,
			SubHabits:   make([]TodaySubHabit, 0, len(h.SubHabits)),
		}
		if c, ok := parents[h.ID]; ok {
			item.Completed = c.Completed
			item.CompletedAt = c.CompletedAt
		}
		for _, sub := range h.SubHabits {
			done := subsDone[sub.ID]
			if done {
				item.CompletedSubHabits++
			}
			item.SubHabits = append(item.SubHabits, TodaySubHabit{
				ID:        sub.ID,
				Name:      sub.Name,
				Order:     sub.Order,
				Completed: done,
			})
		}
		resp.Habits = append(resp.Habits, item)
	}
	return resp, nil
}

// GetHistory reports the completions, current streak and completion rate of one habit over
// [today-windowDays, today].
func (s *service) GetHistory(ctx context.Context, userID, habitID uuid.UUID, windowDays int, today util.Date) (*HistoryResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":     userID,
		"habit_id":    habitID,
		"window_days": windowDays,
	})

	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}

	key := historyKey(userID, habitID, windowDays, today)
	var cached HistoryResponse
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		log.WithError(err).Warn("Failed to read habit history from cache")
	}

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return nil, err
	}

	completions, err := s.repo.ListHabitCompletionsInRange(ctx, userID, []uuid.UUID{h.ID}, today.AddDays(-windowDays), today)
	if err != nil {
		log.WithError(err).Error("Failed to load habit completions for history")
		return nil, err
	}

	done := CompletedOn(h.ID, completions)
	stats := CompletionStats(h, today, windowDays, done)
	resp := &HistoryResponse{
		HabitID:              h.ID,
		Today:                today,
		WindowDays:           windowDays,
		Completions:          completions,
		Streak:               CurrentStreak(h, today, windowDays, done),
		CompletionPercentage: stats.Percentage,
		ApplicableDays:       stats.ApplicableDays,
		CompletedDays:        stats.CompletedDays,
	}

	if err := s.cache.Set(ctx, key, resp, historyTTL); err != nil {
		log.WithError(err).Warn("Failed to cache habit history")
	}
	return resp, nil
}

// BuildCalendar projects every habit, paused ones included, onto the days of [start, end].
func (s *service) BuildCalendar(ctx context.Context, userID uuid.UUID, start, end util.Date) (*CalendarResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id": userID,
		"start":   start.String(),
		"end":     end.String(),
	})

	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	habits, err := s.repo.ListHabits(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list habits for calendar")
		return nil, err
	}

	completions, err := s.repo.ListHabitCompletionsInRange(ctx, userID, habitIDs(habits), start, end)
	if err != nil {
		log.WithError(err).Error("Failed to load completions for calendar")
		return nil, err
	}

	return &CalendarResponse{
		Start: start,
		End:   end,
		Days:  BuildCalendarDays(habits, completions, start, end),
	}, nil
}
