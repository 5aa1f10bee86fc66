package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// CourseRepository resolves courses and the lesson → module → course chain
// used for ownership checks and completion aggregation.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetByLessonID(ctx context.Context, lessonID uint) (models.Course, error)
	GetByQuizID(ctx context.Context, quizID uint) (models.Course, error)
	GetLesson(ctx context.Context, id uint) (models.Lesson, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Author").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.position ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		})
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.baseQuery(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetByLessonID(ctx context.Context, lessonID uint) (models.Course, error) {
	var course models.Course
	err := r.baseQuery(ctx).
		Joins("JOIN modules m ON m.course_id = courses.id").
		Joins("JOIN lessons l ON l.module_id = m.id").
		Where("l.id = ?", lessonID).
		First(&course).Error
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetByQuizID(ctx context.Context, quizID uint) (models.Course, error) {
	var course models.Course
	err := r.baseQuery(ctx).
		Joins("JOIN modules m ON m.course_id = courses.id").
		Joins("JOIN lessons l ON l.module_id = m.id").
		Joins("JOIN quizzes q ON q.lesson_id = l.id").
		Where("q.id = ?", quizID).
		First(&course).Error
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetLesson(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}
