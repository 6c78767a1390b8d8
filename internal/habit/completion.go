package habit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/metrics"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/sirupsen/logrus"
)

func completedAt(completed bool, now time.Time) *time.Time {
	if !completed {
		return nil
	}
	return &now
}

// SetSubHabitCompletion writes one sub-habit's state for a day and re-derives the parent
// from a full recount of completed sub-habits, all under the (habit, day) lock.
func (s *service) SetSubHabitCompletion(ctx context.Context, userID, subHabitID uuid.UUID, date util.Date, completed bool) (*SubHabitCompletion, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":      userID,
		"sub_habit_id": subHabitID,
		"date":         date.String(),
		"completed":    completed,
	})

	sub, err := s.findSubHabit(ctx, log, userID, subHabitID)
	if err != nil {
		return nil, err
	}
	h, err := s.findHabit(ctx, log, userID, sub.HabitID)
	if err != nil {
		if errors.Is(err, ErrHabitNotFound) {
			return nil, ErrSubHabitNotFound
		}
		return nil, err
	}
	if !IsApplicable(date, h) {
		log.Warn("Sub-habit toggle on a day the habit is not scheduled")
		return nil, ErrNotScheduled
	}

	now := s.now().UTC()
	var (
		stored     *SubHabitCompletion
		transition *bool
	)
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.LockHabitDay(ctx, h.ID, date); err != nil {
			return err
		}

		row, err := tx.UpsertSubHabitCompletion(ctx, &SubHabitCompletion{
			UserID:      userID,
			SubHabitID:  sub.ID,
			HabitID:     h.ID,
			Date:        date,
			Completed:   completed,
			CompletedAt: completedAt(completed, now),
		})
		if err != nil {
			return err
		}
		stored = row

		count, err := tx.CountCompletedSubHabits(ctx, userID, h.ID, date)
		if err != nil {
			return err
		}
		parent, err := tx.FindHabitCompletion(ctx, userID, h.ID, date)
		if err != nil {
			return err
		}

		reached := count >= int64(h.TargetCount)
		switch {
		case reached && (parent == nil || !parent.Completed):
			transition = &reached
		case !reached && parent != nil && parent.Completed:
			transition = &reached
		default:
			return nil
		}

		_, err = tx.UpsertHabitCompletion(ctx, &HabitCompletion{
			UserID:      userID,
			HabitID:     h.ID,
			Date:        date,
			Completed:   reached,
			CompletedAt: completedAt(reached, now),
		})
		return err
	})
	if err != nil {
		log.WithError(err).Error("Failed to set sub-habit completion")
		return nil, err
	}

	metrics.CompletionToggles.WithLabelValues("sub_habit", strconv.FormatBool(completed)).Inc()
	if transition != nil {
		metrics.DerivedTransitions.WithLabelValues(strconv.FormatBool(*transition)).Inc()
		log.WithField("habit_completed", *transition).Info("Parent habit completion derived from sub-habits")
	}
	s.invalidateHistory(ctx, log, userID, h.ID)

	return stored, nil
}

// SetHabitCompletion writes the parent state for a day and cascades the same value to every
// sub-habit of the habit. Calling it twice with the same value changes nothing.
func (s *service) SetHabitCompletion(ctx context.Context, userID, habitID uuid.UUID, date util.Date, completed bool) (*HabitCompletion, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":   userID,
		"habit_id":  habitID,
		"date":      date.String(),
		"completed": completed,
	})

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return nil, err
	}
	if !IsApplicable(date, h) {
		log.Warn("Habit toggle on a day the habit is not scheduled")
		return nil, ErrNotScheduled
	}

	now := s.now().UTC()
	var stored *HabitCompletion
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.LockHabitDay(ctx, h.ID, date); err != nil {
			return err
		}

		stamp := completedAt(completed, now)
		existing, err := tx.FindHabitCompletion(ctx, userID, h.ID, date)
		if err != nil {
			return err
		}
		if completed && existing != nil && existing.Completed && existing.CompletedAt != nil {
			stamp = existing.CompletedAt
		}

		stored, err = tx.UpsertHabitCompletion(ctx, &HabitCompletion{
			UserID:      userID,
			HabitID:     h.ID,
			Date:        date,
			Completed:   completed,
			CompletedAt: stamp,
		})
		if err != nil {
			return err
		}

		subs, err := tx.FindSubHabits(ctx, h.ID)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			_, err := tx.UpsertSubHabitCompletion(ctx, &SubHabitCompletion{
				UserID:      userID,
				SubHabitID:  sub.ID,
				HabitID:     h.ID,
				Date:        date,
				Completed:   completed,
				CompletedAt: completedAt(completed, now),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to set habit completion")
		return nil, err
	}

	metrics.CompletionToggles.WithLabelValues("habit", strconv.FormatBool(completed)).Inc()
	s.invalidateHistory(ctx, log, userID, h.ID)

	log.Info("Habit completion set")
	return stored, nil
}
