package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/cache"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	googlecalendar "github.com/saulo-duarte/chronos-habits/internal/google_calendar"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/sirupsen/logrus"
)

type Service interface {
	CreateHabit(ctx context.Context, userID uuid.UUID, dto CreateHabitDTO) (*Habit, error)
	ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, dto UpdateHabitDTO) (*Habit, error)
	SetStatus(ctx context.Context, userID, habitID uuid.UUID, status Status) (*Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error

	CreateSubHabit(ctx context.Context, userID, habitID uuid.UUID, dto CreateSubHabitDTO) (*SubHabit, error)
	UpdateSubHabit(ctx context.Context, userID, subHabitID uuid.UUID, dto UpdateSubHabitDTO) (*SubHabit, error)
	DeleteSubHabit(ctx context.Context, userID, subHabitID uuid.UUID) error

	SetSubHabitCompletion(ctx context.Context, userID, subHabitID uuid.UUID, date util.Date, completed bool) (*SubHabitCompletion, error)
	SetHabitCompletion(ctx context.Context, userID, habitID uuid.UUID, date util.Date, completed bool) (*HabitCompletion, error)

	Today(ctx context.Context, userID uuid.UUID, today util.Date) (*TodayResponse, error)
	GetHistory(ctx context.Context, userID, habitID uuid.UUID, windowDays int, today util.Date) (*HistoryResponse, error)
	BuildCalendar(ctx context.Context, userID uuid.UUID, start, end util.Date) (*CalendarResponse, error)
}

type service struct {
	repo     Repository
	cache    cache.Cache
	calendar googlecalendar.CalendarManager
	now      func() time.Time
}

type Option func(*service)

// WithClock replaces time.Now for completed_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService wires the habit engine. cache may be nil (no caching) and so may calendar
// (no Google Calendar sync).
func NewService(repo Repository, c cache.Cache, calendar googlecalendar.CalendarManager, opts ...Option) Service {
	if c == nil {
		c = cache.NewNoopCache()
	}
	s := &service{
		repo:     repo,
		cache:    c,
		calendar: calendar,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) findHabit(ctx context.Context, log logrus.FieldLogger, userID, habitID uuid.UUID) (*Habit, error) {
	h, err := s.repo.FindHabit(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"habit_id": habitID,
				"user_id":  userID,
			}).Warn("Habit not found or does not belong to user")
			return nil, ErrHabitNotFound
		}
		log.WithError(err).Error("Failed to load habit")
		return nil, err
	}
	return h, nil
}

func (s *service) findSubHabit(ctx context.Context, log logrus.FieldLogger, userID, subHabitID uuid.UUID) (*SubHabit, error) {
	sub, err := s.repo.FindSubHabit(ctx, subHabitID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"sub_habit_id": subHabitID,
				"user_id":      userID,
			}).Warn("Sub-habit not found or does not belong to user")
			return nil, ErrSubHabitNotFound
		}
		log.WithError(err).Error("Failed to load sub-habit")
		return nil, err
	}
	return sub, nil
}

func validateHabit(h *Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !h.Frequency.IsValid() {
		return invalid("frequency", "must be one of daily, weekly, custom")
	}
	if !h.Status.IsValid() {
		return invalid("status", "must be active or paused")
	}
	if h.TargetCount < 1 {
		return invalid("target_count", "must be at least 1")
	}
	if h.StartDate != nil && h.EndDate != nil && h.EndDate.Before(*h.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	return nil
}

func (s *service) CreateHabit(ctx context.Context, userID uuid.UUID, dto CreateHabitDTO) (*Habit, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if err := validateStruct(dto); err != nil {
		return nil, err
	}

	days, err := customDaysFromInts(dto.CustomDays)
	if err != nil {
		return nil, invalid("custom_days", "%s", err.Error())
	}

	target := 1
	if dto.TargetCount != nil {
		target = *dto.TargetCount
	}

	h := &Habit{
		UserID:      userID,
		Name:        strings.TrimSpace(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		Frequency:   dto.Frequency,
		CustomDays:  days,
		TargetCount: target,
		Status:      StatusActive,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
	}
	if err := validateHabit(h); err != nil {
		return nil, err
	}
	if h.EveryDayByDefault() {
		log.Info("Weekly habit created without days, scheduling it every day")
	}

	if err := s.repo.CreateHabit(ctx, h); err != nil {
		log.WithError(err).Error("Failed to create habit")
		return nil, err
	}
	h.SubHabits = []SubHabit{}

	s.syncCalendar(ctx, log, h)

	log.WithField("habit_id", h.ID).Info("Habit created successfully")
	return h, nil
}

func (s *service) ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	habits, err := s.repo.ListHabits(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list habits")
		return nil, err
	}
	return habits, nil
}

func (s *service) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error) {
	return s.findHabit(ctx, config.WithContext(ctx), userID, habitID)
}

func (s *service) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, dto UpdateHabitDTO) (*Habit, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID})

	if err := validateStruct(dto); err != nil {
		return nil, err
	}

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		h.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		h.Description = strings.TrimSpace(*dto.Description)
	}
	if dto.Frequency != nil {
		h.Frequency = *dto.Frequency
	}
	if dto.CustomDays != nil {
		days, err := customDaysFromInts(*dto.CustomDays)
		if err != nil {
			return nil, invalid("custom_days", "%s", err.Error())
		}
		h.CustomDays = days
	}
	if dto.TargetCount != nil {
		h.TargetCount = *dto.TargetCount
	}
	if dto.Status != nil {
		h.Status = *dto.Status
	}
	if dto.ClearStartDate {
		h.StartDate = nil
	}
	if dto.StartDate != nil {
		h.StartDate = dto.StartDate
	}
	if dto.ClearEndDate {
		h.EndDate = nil
	}
	if dto.EndDate != nil {
		h.EndDate = dto.EndDate
	}

	if err := validateHabit(h); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHabit(ctx, h); err != nil {
		log.WithError(err).Error("Failed to update habit")
		return nil, err
	}

	s.syncCalendar(ctx, log, h)
	s.invalidateHistory(ctx, log, userID, h.ID)

	log.Info("Habit updated successfully")
	return h, nil
}

func (s *service) SetStatus(ctx context.Context, userID, habitID uuid.UUID, status Status) (*Habit, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID})

	if !status.IsValid() {
		return nil, invalid("status", "must be active or paused")
	}

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return nil, err
	}
	if h.Status == status {
		return h, nil
	}

	h.Status = status
	if err := s.repo.UpdateHabit(ctx, h); err != nil {
		log.WithError(err).Error("Failed to change habit status")
		return nil, err
	}

	log.WithField("status", status).Info("Habit status changed")
	return h, nil
}

func (s *service) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID})

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteHabit(ctx, h.ID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrHabitNotFound
		}
		log.WithError(err).Error("Failed to delete habit")
		return err
	}

	if s.calendar != nil && h.GoogleCalendarEventID != nil {
		if err := s.calendar.RemoveHabit(ctx, userID, *h.GoogleCalendarEventID); err != nil {
			log.WithError(err).Warn("Failed to remove habit from Google Calendar")
		}
	}
	s.invalidateHistory(ctx, log, userID, h.ID)

	log.Info("Habit deleted successfully")
	return nil
}

func (s *service) CreateSubHabit(ctx context.Context, userID, habitID uuid.UUID, dto CreateSubHabitDTO) (*SubHabit, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID})

	if err := validateStruct(dto); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, invalid("name", "must not be empty")
	}

	h, err := s.findHabit(ctx, log, userID, habitID)
	if err != nil {
		return nil, err
	}

	sub := &SubHabit{HabitID: h.ID, Name: name, Order: dto.Order}
	if err := s.repo.CreateSubHabit(ctx, sub); err != nil {
		log.WithError(err).Error("Failed to create sub-habit")
		return nil, err
	}

	log.WithField("sub_habit_id", sub.ID).Info("Sub-habit created successfully")
	return sub, nil
}

func (s *service) UpdateSubHabit(ctx context.Context, userID, subHabitID uuid.UUID, dto UpdateSubHabitDTO) (*SubHabit, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "sub_habit_id": subHabitID})

	if err := validateStruct(dto); err != nil {
		return nil, err
	}

	sub, err := s.findSubHabit(ctx, log, userID, subHabitID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, invalid("name", "must not be empty")
		}
		sub.Name = name
	}
	if dto.Order != nil {
		sub.Order = *dto.Order
	}

	if err := s.repo.UpdateSubHabit(ctx, sub); err != nil {
		log.WithError(err).Error("Failed to update sub-habit")
		return nil, err
	}
	return sub, nil
}

// DeleteSubHabit drops the sub-habit and its completions. The parent completion is left
// as it is until the next toggle recounts.
func (s *service) DeleteSubHabit(ctx context.Context, userID, subHabitID uuid.UUID) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "sub_habit_id": subHabitID})

	sub, err := s.findSubHabit(ctx, log, userID, subHabitID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSubHabit(ctx, sub.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrSubHabitNotFound
		}
		log.WithError(err).Error("Failed to delete sub-habit")
		return err
	}

	log.Info("Sub-habit deleted successfully")
	return nil
}

func toCalendarHabit(h *Habit) *googlecalendar.CalendarHabit {
	start := util.DateOf(h.CreatedAt.In(config.Location()))
	if h.StartDate != nil && !h.StartDate.IsZero() {
		start = *h.StartDate
	}

	cal := &googlecalendar.CalendarHabit{
		ID:                    h.ID,
		Name:                  h.Name,
		Description:           h.Description,
		Frequency:             string(h.Frequency),
		Days:                  sortedInts(h.CustomDays),
		StartDate:             start.Time,
		GoogleCalendarEventID: h.GoogleCalendarEventID,
	}
	if h.EndDate != nil && !h.EndDate.IsZero() {
		end := h.EndDate.Time
		cal.EndDate = &end
	}
	return cal
}

// syncCalendar mirrors the habit into the owner's Google Calendar. Failures never fail the
// habit operation.
func (s *service) syncCalendar(ctx context.Context, log logrus.FieldLogger, h *Habit) {
	if s.calendar == nil {
		return
	}

	eventID, err := s.calendar.SyncHabit(ctx, h.UserID, toCalendarHabit(h))
	if err != nil {
		log.WithError(err).Warnf("Failed to sync habit %s with Google Calendar", h.ID)
		return
	}

	current := ""
	if h.GoogleCalendarEventID != nil {
		current = *h.GoogleCalendarEventID
	}
	if eventID == current {
		return
	}

	if eventID == "" {
		h.GoogleCalendarEventID = nil
	} else {
		h.GoogleCalendarEventID = &eventID
	}
	if err := s.repo.UpdateHabit(ctx, h); err != nil {
		log.WithError(err).Error("Failed to store Google Calendar event ID on habit")
	}
}

func historyKey(userID, habitID uuid.UUID, windowDays int, today util.Date) string {
	return fmt.Sprintf("history:%s:%s:%d:%s", userID, habitID, windowDays, today)
}

func (s *service) invalidateHistory(ctx context.Context, log logrus.FieldLogger, userID, habitID uuid.UUID) {
	pattern := fmt.Sprintf("history:%s:%s:*", userID, habitID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		log.WithError(err).Warn("Failed to invalidate habit history cache")
	}
}
