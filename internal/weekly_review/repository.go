package weekly_review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/chronos-habits/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Upsert(ctx context.Context, review *WeeklyReview) (*WeeklyReview, error)
	FindByID(ctx context.Context, id, userID uuid.UUID) (*WeeklyReview, error)
	FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]WeeklyReview, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert keeps a single review per user and week.
func (r *repository) Upsert(ctx context.Context, review *WeeklyReview) (*WeeklyReview, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"wins", "challenges", "next_focus", "rating", "metrics", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return nil, err
	}
	return r.findByWeek(ctx, review.UserID, review.WeekStart)
}

func (r *repository) findByWeek(ctx context.Context, userID uuid.UUID, weekStart util.Date) (*WeeklyReview, error) {
	var review WeeklyReview
	if err := r.db.WithContext(ctx).First(&review, "user_id = ? AND week_start = ?", userID, weekStart).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) FindByID(ctx context.Context, id, userID uuid.UUID) (*WeeklyReview, error) {
	var review WeeklyReview
	if err := r.db.WithContext(ctx).First(&review, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]WeeklyReview, error) {
	var reviews []WeeklyReview
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("week_start DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&WeeklyReview{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
