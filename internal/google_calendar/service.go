package googlecalendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/user"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var (
	ErrUserNotFound          = errors.New("user not found for calendar integration")
	ErrDecryptionFailed      = errors.New("failed to decrypt user's google token")
	ErrMissingCalendarTokens = errors.New("user has no google access token")
	ErrMissingEventID        = errors.New("cannot update event: missing Google Calendar Event ID")
)

const primaryCalendar = "primary"

type CalendarService interface {
	AddEventToCalendar(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) (string, error)
	UpdateEventInCalendar(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) error
	DeleteEventFromCalendar(ctx context.Context, userID uuid.UUID, googleEventID string) error
}

type calendarService struct {
	userRepo    user.UserRepository
	oauthConfig *oauth2.Config
}

func NewCalendarService(userRepo user.UserRepository, oauthConfig *oauth2.Config) CalendarService {
	return &calendarService{
		userRepo:    userRepo,
		oauthConfig: oauthConfig,
	}
}

func (s *calendarService) getCalendarClient(ctx context.Context, userID uuid.UUID) (*gcal.Service, error) {
	log := config.WithContext(ctx)

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to retrieve user for calendar client")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.EncryptedGoogleAccessToken == "" {
		return nil, ErrMissingCalendarTokens
	}

	accessToken, err := config.Decrypt(u.EncryptedGoogleAccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to decrypt access token")
		return nil, ErrDecryptionFailed
	}

	var refreshToken string
	if u.EncryptedGoogleRefreshToken != "" {
		refreshToken, err = config.Decrypt(u.EncryptedGoogleRefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to decrypt refresh token")
			return nil, ErrDecryptionFailed
		}
	}

	token := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
	}
	if refreshToken != "" {
		token.Expiry = time.Now().Add(-time.Hour)
	}

	tokenSource := s.oauthConfig.TokenSource(ctx, token)
	client := oauth2.NewClient(ctx, tokenSource)
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		log.WithError(err).Error("Failed to create Calendar service client")
		return nil, err
	}

	return srv, nil
}

func (s *calendarService) AddEventToCalendar(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) (string, error) {
	log := config.WithContext(ctx)

	event := BuildEvent(habit)
	if event == nil {
		log.Infof("Habit %s has no occurrences, skipping calendar event", habit.ID)
		return "", nil
	}

	srv, err := s.getCalendarClient(ctx, userID)
	if err != nil {
		return "", err
	}

	calEvent, err := srv.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		log.WithError(err).Error("Failed to insert calendar event")
		return "", err
	}

	return calEvent.Id, nil
}

func (s *calendarService) UpdateEventInCalendar(ctx context.Context, userID uuid.UUID, habit *CalendarHabit) error {
	log := config.WithContext(ctx)
	if !habit.HasEvent() {
		return ErrMissingEventID
	}

	event := BuildEvent(habit)
	if event == nil {
		log.Infof("Habit %s no longer occurs, deleting calendar event", habit.ID)
		return s.DeleteEventFromCalendar(ctx, userID, *habit.GoogleCalendarEventID)
	}

	srv, err := s.getCalendarClient(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := srv.Events.Update(primaryCalendar, *habit.GoogleCalendarEventID, event).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("Failed to update calendar event")
		return err
	}

	return nil
}

func (s *calendarService) DeleteEventFromCalendar(ctx context.Context, userID uuid.UUID, googleEventID string) error {
	log := config.WithContext(ctx)
	srv, err := s.getCalendarClient(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMissingCalendarTokens) || errors.Is(err, ErrDecryptionFailed) {
			log.Warnf("Skipping Google Calendar deletion for event %s due to missing/invalid token", googleEventID)
			return nil
		}
		return err
	}

	err = srv.Events.Delete(primaryCalendar, googleEventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == 404 || apiErr.Code == 410) {
			log.Warnf("Calendar event %s not found on Google, considering deleted.", googleEventID)
			return nil
		}
		log.WithError(err).Error("Failed to delete calendar event")
		return err
	}

	return nil
}
