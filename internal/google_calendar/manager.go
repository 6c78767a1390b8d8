package googlecalendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
)

// CalendarManager keeps one recurring event per habit in step with the habit's schedule.
type CalendarManager interface {
	SyncHabit(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) (eventID string, err error)
	RemoveHabit(ctx context.Context, userID uuid.UUID, eventID string) error
}

type calendarManager struct {
	calendarService CalendarService
}

func NewCalendarManager(calendarService CalendarService) CalendarManager {
	return &calendarManager{
		calendarService: calendarService,
	}
}

func (m *calendarManager) SyncHabit(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) (string, error) {
	log := config.WithContext(ctx)

	occurs := BuildRecurrence(habit) != ""

	if habit.HasEvent() && !occurs {
		log.Infof("Habit %s no longer occurs, deleting calendar event", habit.ID)
		if err := m.calendarService.DeleteEventFromCalendar(ctx, userID, *habit.GoogleCalendarEventID); err != nil {
			log.WithError(err).Warnf("Failed to delete calendar event for habit %s", habit.ID)
			return *habit.GoogleCalendarEventID, err
		}
		return "", nil
	}

	if !occurs {
		return "", nil
	}

	if habit.HasEvent() {
		if err := m.calendarService.UpdateEventInCalendar(ctx, userID, habit); err != nil {
			log.WithError(err).Warnf("Failed to update calendar event for habit %s", habit.ID)
			return *habit.GoogleCalendarEventID, err
		}
		return *habit.GoogleCalendarEventID, nil
	}

	eventID, err := m.calendarService.AddEventToCalendar(ctx, userID, habit)
	if err != nil {
		if errors.Is(err, ErrMissingCalendarTokens) {
			return "", nil
		}
		log.WithError(err).Warnf("Failed to create calendar event for habit %s", habit.ID)
		return "", err
	}

	if eventID == "" {
		log.Warnf("Calendar service returned empty event ID for habit %s", habit.ID)
		return "", nil
	}

	log.Infof("Created calendar event %s for habit %s", eventID, habit.ID)
	return eventID, nil
}

func (m *calendarManager) RemoveHabit(ctx context.Context, userID uuid.UUID, eventID string) error {
	if eventID == "" {
		return nil
	}

	log := config.WithContext(ctx)

	if err := m.calendarService.DeleteEventFromCalendar(ctx, userID, eventID); err != nil {
		log.WithError(err).Warnf("Failed to delete calendar event %s", eventID)
		return err
	}

	return nil
}
