package weekly_review

import util "github.com/saulo-duarte/chronos-habits/internal/utils"

type SaveWeeklyReviewDTO struct {
	// WeekStart may be any day of the week; it is moved back to that week's Monday.
	WeekStart  *util.Date `json:"week_start"`
	Wins       string     `json:"wins" validate:"max=4000"`
	Challenges string     `json:"challenges" validate:"max=4000"`
	NextFocus  string     `json:"next_focus" validate:"max=4000"`
	Rating     int        `json:"rating" validate:"required,min=1,max=5"`
}
