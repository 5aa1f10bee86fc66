package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// QuizRepository defines data operations for quizzes and their questions.
type QuizRepository interface {
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	GetByLessonID(ctx context.Context, lessonID uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates the repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Quiz{}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		})
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.baseQuery(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (r *quizRepository) GetByLessonID(ctx context.Context, lessonID uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.baseQuery(ctx).Where("lesson_id = ?", lessonID).First(&quiz).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// Create persists the quiz together with its questions and options in one
// transaction; GORM cascades the associations.
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}
