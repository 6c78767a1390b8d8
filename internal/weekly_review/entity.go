package weekly_review

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WeeklyReview struct {
	ID         uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                         `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_reviews_user_week,priority:1" json:"user_id"`
	WeekStart  util.Date                         `gorm:"type:date;not null;uniqueIndex:idx_weekly_reviews_user_week,priority:2" json:"week_start"`
	Wins       string                            `gorm:"type:text" json:"wins"`
	Challenges string                            `gorm:"type:text" json:"challenges"`
	NextFocus  string                            `gorm:"type:text" json:"next_focus"`
	Rating     int                               `gorm:"not null" json:"rating"`
	Metrics    datatypes.JSONType[ReviewMetrics] `json:"metrics"`
	CreatedAt  time.Time                         `json:"created_at"`
	UpdatedAt  time.Time                         `json:"updated_at"`
}

func (r *WeeklyReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ReviewMetrics struct {
	HabitsTracked  int                `json:"habits_tracked"`
	ApplicableDays int                `json:"applicable_days"`
	CompletedDays  int                `json:"completed_days"`
	CompletionRate float64            `json:"completion_rate"`
	Habits         []HabitWeekMetrics `json:"habits"`
}

type HabitWeekMetrics struct {
	HabitID        uuid.UUID `json:"habit_id"`
	Name           string    `json:"name"`
	ApplicableDays int       `json:"applicable_days"`
	CompletedDays  int       `json:"completed_days"`
}
