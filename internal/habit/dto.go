package habit

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

type CreateHabitDTO struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=1000"`
	Frequency   Frequency  `json:"frequency" validate:"required,oneof=daily weekly custom"`
	CustomDays  []int      `json:"custom_days" validate:"omitempty,max=7,dive,min=0,max=6"`
	TargetCount *int       `json:"target_count" validate:"omitempty,min=1"`
	StartDate   *util.Date `json:"start_date"`
	EndDate     *util.Date `json:"end_date"`
}

type UpdateHabitDTO struct {
	Name        *string    `json:"name" validate:"omitempty,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Frequency   *Frequency `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	CustomDays  *[]int     `json:"custom_days" validate:"omitempty,max=7,dive,min=0,max=6"`
	TargetCount *int       `json:"target_count" validate:"omitempty,min=1"`
	Status      *Status    `json:"status" validate:"omitempty,oneof=active paused"`
	StartDate   *util.Date `json:"start_date"`
	EndDate     *util.Date `json:"end_date"`

	// ClearStartDate and ClearEndDate remove the bound; a date sent in the same request wins.
	ClearStartDate bool `json:"clear_start_date"`
	ClearEndDate   bool `json:"clear_end_date"`
}

type CreateSubHabitDTO struct {
	Name  string `json:"name" validate:"required,max=120"`
	Order int    `json:"order"`
}

type UpdateSubHabitDTO struct {
	Name  *string `json:"name" validate:"omitempty,max=120"`
	Order *int    `json:"order"`
}

type SetCompletionDTO struct {
	Completed *bool `json:"completed" validate:"required"`
}

type HistoryResponse struct {
	HabitID              uuid.UUID         `json:"habit_id"`
	Today                util.Date         `json:"today"`
	WindowDays           int               `json:"window_days"`
	Completions          []HabitCompletion `json:"completions"`
	Streak               int               `json:"streak"`
	CompletionPercentage float64           `json:"completion_percentage"`
	ApplicableDays       int               `json:"applicable_days"`
	CompletedDays        int               `json:"completed_days"`
}

type CalendarResponse struct {
	Start util.Date     `json:"start"`
	End   util.Date     `json:"end"`
	Days  []CalendarDay `json:"days"`
}

type CalendarDay struct {
	Date   util.Date       `json:"date"`
	Status DayStatus       `json:"status"`
	Habits []CalendarEntry `json:"habits"`
}

type CalendarEntry struct {
	HabitID   uuid.UUID `json:"habit_id"`
	HabitName string    `json:"habit_name"`
	Completed bool      `json:"completed"`
}

type TodayResponse struct {
	Date   util.Date    `json:"date"`
	Habits []TodayHabit `json:"habits"`
}

type TodayHabit struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Frequency          Frequency       `json:"frequency"`
	TargetCount        int             `json:"target_count"`
	Completed          bool            `json:"completed"`
	CompletedAt        *time.Time      `json:"completed_at"`
	CompletedSubHabits int             `json:"completed_sub_habits"`
	SubHabits          []TodaySubHabit `json:"sub_habits"`
}

type TodaySubHabit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Completed bool      `json:"completed"`
}
