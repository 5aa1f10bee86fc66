package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// EnrollmentRepository defines data operations for course enrollments.
type EnrollmentRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// ListByUser returns enrollments with the full course tree preloaded, which
// the completion tracker walks to count lessons.
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Preload("Course").
		Preload("Course.Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.position ASC")
		}).
		Preload("Course.Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Course").First(&enrollment, id).Error; err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}
