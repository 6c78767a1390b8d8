package googlecalendar

import (
	"strings"

	gcal "google.golang.org/api/calendar/v3"
)

const allDayLayout = "2006-01-02"

var byDayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// BuildRecurrence turns a habit frequency into an RFC 5545 rule. It returns "" when the
// habit never occurs, which is the case for a custom habit without days.
func BuildRecurrence(h *CalendarHabit) string {
	var rule string
	switch {
	case h.Frequency == "daily":
		rule = "RRULE:FREQ=DAILY"
	case len(h.Days) == 0 && h.Frequency == "weekly":
		rule = "RRULE:FREQ=DAILY"
	case len(h.Days) == 0:
		return ""
	default:
		codes := make([]string, 0, len(h.Days))
		seen := [7]bool{}
		for _, d := range h.Days {
			if d < 0 || d > 6 || seen[d] {
				continue
			}
			seen[d] = true
		}
		for d, ok := range seen {
			if ok {
				codes = append(codes, byDayCodes[d])
			}
		}
		if len(codes) == 0 {
			return ""
		}
		rule = "RRULE:FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
	}

	if h.EndDate != nil {
		rule += ";UNTIL=" + h.EndDate.Format("20060102")
	}
	return rule
}

// BuildEvent returns nil when the habit has no occurrences.
func BuildEvent(h *CalendarHabit) *gcal.Event {
	rule := BuildRecurrence(h)
	if rule == "" {
		return nil
	}

	start := h.StartDate
	return &gcal.Event{
		Summary:      h.Name,
		Description:  h.Description,
		Start:        &gcal.EventDateTime{Date: start.Format(allDayLayout)},
		End:          &gcal.EventDateTime{Date: start.AddDate(0, 0, 1).Format(allDayLayout)},
		Recurrence:   []string{rule},
		Transparency: "transparent",
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
