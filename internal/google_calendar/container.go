package googlecalendar

import (
	"os"

	"github.com/saulo-duarte/chronos-habits/internal/user"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
)

type GoogleCalendarContainer struct {
	CalendarService CalendarService
	CalendarManager CalendarManager
}

func NewGoogleCalendarContainer(userRepo user.UserRepository) *GoogleCalendarContainer {
	oauthConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	calendarService := NewCalendarService(userRepo, oauthConfig)

	return &GoogleCalendarContainer{
		CalendarService: calendarService,
		CalendarManager: NewCalendarManager(calendarService),
	}
}
