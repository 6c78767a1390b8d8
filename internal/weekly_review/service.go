package weekly_review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/habit"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrReviewNotFound = errors.New("weekly review not found")
	ErrInvalidReview  = errors.New("invalid weekly review")
)

var validate = validator.New()

// CalendarBuilder projects the caller's habits over a date range.
type CalendarBuilder interface {
	BuildCalendar(ctx context.Context, userID uuid.UUID, start, end util.Date) (*habit.CalendarResponse, error)
}

type Service interface {
	Save(ctx context.Context, userID uuid.UUID, dto SaveWeeklyReviewDTO, today util.Date) (*WeeklyReview, error)
	List(ctx context.Context, userID uuid.UUID) ([]WeeklyReview, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*WeeklyReview, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo     Repository
	calendar CalendarBuilder
}

func NewService(repo Repository, calendar CalendarBuilder) Service {
	return &service{repo: repo, calendar: calendar}
}

// WeekOf returns the Monday starting the week that contains d.
func WeekOf(d util.Date) util.Date {
	return d.StartOfWeek(time.Monday)
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, dto SaveWeeklyReviewDTO, today util.Date) (*WeeklyReview, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if err := validate.Struct(dto); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReview, err.Error())
	}

	weekStart := WeekOf(today)
	if dto.WeekStart != nil && !dto.WeekStart.IsZero() {
		weekStart = WeekOf(*dto.WeekStart)
	}
	log = log.WithField("week_start", weekStart.String())

	cal, err := s.calendar.BuildCalendar(ctx, userID, weekStart, weekStart.AddDays(6))
	if err != nil {
		log.WithError(err).Error("Failed to build calendar for weekly review")
		return nil, err
	}

	review, err := s.repo.Upsert(ctx, &WeeklyReview{
		UserID:     userID,
		WeekStart:  weekStart,
		Wins:       strings.TrimSpace(dto.Wins),
		Challenges: strings.TrimSpace(dto.Challenges),
		NextFocus:  strings.TrimSpace(dto.NextFocus),
		Rating:     dto.Rating,
		Metrics:    datatypes.NewJSONType(ComputeMetrics(cal.Days)),
	})
	if err != nil {
		log.WithError(err).Error("Failed to save weekly review")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"review_id":       review.ID,
		"completion_rate": review.Metrics.Data().CompletionRate,
	}).Info("Weekly review saved")
	return review, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]WeeklyReview, error) {
	reviews, err := s.repo.FindAllByUserID(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list weekly reviews")
		return nil, err
	}
	return reviews, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*WeeklyReview, error) {
	review, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		config.WithContext(ctx).WithError(err).Error("Failed to load weekly review")
		return nil, err
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrReviewNotFound
		}
		config.WithContext(ctx).WithError(err).Error("Failed to delete weekly review")
		return err
	}
	return nil
}
