package habit

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"gorm.io/gorm"
)

type Habit struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                  string     `gorm:"not null" json:"name"`
	Description           string     `json:"description,omitempty"`
	Frequency             Frequency  `gorm:"type:varchar(16);not null" json:"frequency"`
	CustomDays            CustomDays `gorm:"type:smallint;not null" json:"custom_days"`
	TargetCount           int        `gorm:"not null" json:"target_count"`
	Status                Status     `gorm:"type:varchar(16);not null" json:"status"`
	StartDate             *util.Date `gorm:"type:date" json:"start_date,omitempty"`
	EndDate               *util.Date `gorm:"type:date" json:"end_date,omitempty"`
	GoogleCalendarEventID *string    `json:"google_calendar_event_id,omitempty"`
	SubHabits             []SubHabit `gorm:"foreignKey:HabitID" json:"sub_habits"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// EveryDayByDefault reports the weekly-with-no-days configuration, which is treated as daily.
func (h *Habit) EveryDayByDefault() bool {
	return h.Frequency == FrequencyWeekly && h.CustomDays.IsEmpty()
}

type SubHabit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;index" json:"habit_id"`
	Name      string    `gorm:"not null" json:"name"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SubHabit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type HabitCompletion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_habit_completions_day,priority:1" json:"user_id"`
	HabitID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_habit_completions_day,priority:2" json:"habit_id"`
	Date        util.Date  `gorm:"column:completion_date;type:date;not null;uniqueIndex:idx_habit_completions_day,priority:3" json:"date"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *HabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type SubHabitCompletion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_sub_habit_completions_day,priority:1;index:idx_sub_habit_completions_habit_day,priority:1" json:"user_id"`
	SubHabitID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_sub_habit_completions_day,priority:2" json:"sub_habit_id"`
	HabitID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_sub_habit_completions_habit_day,priority:2" json:"habit_id"`
	Date        util.Date  `gorm:"column:completion_date;type:date;not null;uniqueIndex:idx_sub_habit_completions_day,priority:3;index:idx_sub_habit_completions_habit_day,priority:3" json:"date"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *SubHabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Models lists every table the package owns, in migration order.
func Models() []interface{} {
	return []interface{}{&Habit{}, &SubHabit{}, &HabitCompletion{}, &SubHabitCompletion{}}
}
