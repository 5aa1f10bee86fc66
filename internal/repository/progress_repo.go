package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// ProgressRepository defines data operations for lesson completion flags.
type ProgressRepository interface {
	GetByUserAndLesson(ctx context.Context, userID, lessonID uint) (models.Progress, error)
	Create(ctx context.Context, progress *models.Progress) error
	Update(ctx context.Context, progress *models.Progress) error
	CountCompleted(ctx context.Context, userID uint, lessonIDs []uint) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates the repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetByUserAndLesson(ctx context.Context, userID, lessonID uint) (models.Progress, error) {
	var progress models.Progress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("lesson_id = ?", lessonID).
		First(&progress).Error
	if err != nil {
		return models.Progress{}, err
	}
	return progress, nil
}

func (r *progressRepository) Create(ctx context.Context, progress *models.Progress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *progressRepository) Update(ctx context.Context, progress *models.Progress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *progressRepository) CountCompleted(ctx context.Context, userID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Where("lesson_id IN ?", lessonIDs).
		Where("completed = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
