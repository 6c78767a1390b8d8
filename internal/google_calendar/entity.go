package googlecalendar

import (
	"time"

	"github.com/google/uuid"
)

// CalendarHabit is the part of a habit that is mirrored as a recurring all-day event.
type CalendarHabit struct {
	ID          uuid.UUID
	Name        string
	Description string
	// Frequency is one of daily, weekly or custom.
	Frequency string
	// Days holds weekday indices, 0 = Sunday.
	Days                  []int
	StartDate             time.Time
	EndDate               *time.Time
	GoogleCalendarEventID *string
}

func (h *CalendarHabit) HasEvent() bool {
	return h.GoogleCalendarEventID != nil && *h.GoogleCalendarEventID != ""
}
