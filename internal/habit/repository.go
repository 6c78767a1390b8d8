package habit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateHabit(ctx context.Context, h *Habit) error
	FindHabit(ctx context.Context, id, userID uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	UpdateHabit(ctx context.Context, h *Habit) error
	DeleteHabit(ctx context.Context, id, userID uuid.UUID) error

	CreateSubHabit(ctx context.Context, s *SubHabit) error
	FindSubHabit(ctx context.Context, id, userID uuid.UUID) (*SubHabit, error)
	FindSubHabits(ctx context.Context, habitID uuid.UUID) ([]SubHabit, error)
	UpdateSubHabit(ctx context.Context, s *SubHabit) error
	DeleteSubHabit(ctx context.Context, id uuid.UUID) error

	UpsertHabitCompletion(ctx context.Context, c *HabitCompletion) (*HabitCompletion, error)
	UpsertSubHabitCompletion(ctx context.Context, c *SubHabitCompletion) (*SubHabitCompletion, error)
	FindHabitCompletion(ctx context.Context, userID, habitID uuid.UUID, date util.Date) (*HabitCompletion, error)
	CountCompletedSubHabits(ctx context.Context, userID, habitID uuid.UUID, date util.Date) (int64, error)
	ListHabitCompletionsInRange(ctx context.Context, userID uuid.UUID, habitIDs []uuid.UUID, start, end util.Date) ([]HabitCompletion, error)
	ListSubHabitCompletionsInRange(ctx context.Context, userID uuid.UUID, habitIDs []uuid.UUID, start, end util.Date) ([]SubHabitCompletion, error)

	LockHabitDay(ctx context.Context, habitID uuid.UUID, date util.Date) error
	WithTransaction(ctx context.Context, fn func(Repository) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func orderedSubHabits(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

func (r *repository) CreateHabit(ctx context.Context, h *Habit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error
}

func (r *repository) FindHabit(ctx context.Context, id, userID uuid.UUID) (*Habit, error) {
	var h Habit
	err := r.db.WithContext(ctx).
		Preload("SubHabits", orderedSubHabits).
		Where("id = ? AND user_id = ?", id, userID).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *repository) ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Preload("SubHabits", orderedSubHabits).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *repository) UpdateHabit(ctx context.Context, h *Habit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error
}

// DeleteHabit removes the habit together with its sub-habits and every completion row.
func (r *repository) DeleteHabit(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Habit{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := tx.Where("habit_id = ?", id).Delete(&SubHabitCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", id).Delete(&HabitCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", id).Delete(&SubHabit{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Habit{}).Error
	})
}

func (r *repository) CreateSubHabit(ctx context.Context, s *SubHabit) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindSubHabit resolves a sub-habit only when its parent habit belongs to userID.
func (r *repository) FindSubHabit(ctx context.Context, id, userID uuid.UUID) (*SubHabit, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&Habit{}).Select("id").Where("user_id = ?", userID)

	var s SubHabit
	if err := db.Where("id = ? AND habit_id IN (?)", id, owned).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindSubHabits(ctx context.Context, habitID uuid.UUID) ([]SubHabit, error) {
	var subs []SubHabit
	if err := orderedSubHabits(r.db.WithContext(ctx)).Where("habit_id = ?", habitID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) UpdateSubHabit(ctx context.Context, s *SubHabit) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) DeleteSubHabit(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_habit_id = ?", id).Delete(&SubHabitCompletion{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&SubHabit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repository) UpsertHabitCompletion(ctx context.Context, c *HabitCompletion) (*HabitCompletion, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "habit_id"}, {Name: "completion_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return nil, err
	}

	stored, err := r.FindHabitCompletion(ctx, c.UserID, c.HabitID, c.Date)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("habit completion %s/%s vanished after upsert", c.HabitID, c.Date)
	}
	return stored, nil
}

func (r *repository) UpsertSubHabitCompletion(ctx context.Context, c *SubHabitCompletion) (*SubHabitCompletion, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "sub_habit_id"}, {Name: "completion_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return nil, err
	}

	var stored SubHabitCompletion
	err = db.Where("user_id = ? AND sub_habit_id = ? AND completion_date = ?", c.UserID, c.SubHabitID, c.Date).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindHabitCompletion returns nil, nil when no row exists for the day.
func (r *repository) FindHabitCompletion(ctx context.Context, userID, habitID uuid.UUID, date util.Date) (*HabitCompletion, error) {
	var c HabitCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND habit_id = ? AND completion_date = ?", userID, habitID, date).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) CountCompletedSubHabits(ctx context.Context, userID, habitID uuid.UUID, date util.Date) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SubHabitCompletion{}).
		Where("user_id = ? AND habit_id = ? AND completion_date = ? AND completed = ?", userID, habitID, date, true).
		Count(&count).Error
	return count, err
}

func (r *repository) ListHabitCompletionsInRange(ctx context.Context, userID uuid.UUID, habitIDs []uuid.UUID, start, end util.Date) ([]HabitCompletion, error) {
	if len(habitIDs) == 0 {
		return []HabitCompletion{}, nil
	}

	var completions []HabitCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND habit_id IN ? AND completion_date BETWEEN ? AND ?", userID, habitIDs, start, end).
		Order("completion_date ASC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *repository) ListSubHabitCompletionsInRange(ctx context.Context, userID uuid.UUID, habitIDs []uuid.UUID, start, end util.Date) ([]SubHabitCompletion, error) {
	if len(habitIDs) == 0 {
		return []SubHabitCompletion{}, nil
	}

	var completions []SubHabitCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND habit_id IN ? AND completion_date BETWEEN ? AND ?", userID, habitIDs, start, end).
		Order("completion_date ASC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// LockHabitDay serializes aggregations of one (habit, day) until the surrounding
// transaction ends. Only PostgreSQL needs it; SQLite already runs writers one at a time.
func (r *repository) LockHabitDay(ctx context.Context, habitID uuid.UUID, date util.Date) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	key := habitID.String() + ":" + date.String()
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *repository) WithTransaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}
