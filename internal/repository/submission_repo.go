package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// SubmissionRepository defines data operations for submissions and their
// answer sets.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Submission, error)
	ListPendingByAuthor(ctx context.Context, authorID uint) ([]models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	SaveGrades(ctx context.Context, submission *models.Submission, answers []models.SubmissionAnswer) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Quiz").
		Preload("User").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("submission_answers.question_id ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Options")
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Quiz").
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListPendingByAuthor returns PENDING submissions across every course the
// author owns, newest first.
func (r *submissionRepository) ListPendingByAuthor(ctx context.Context, authorID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Quiz").
		Preload("User").
		Joins("JOIN quizzes q ON q.id = submissions.quiz_id").
		Joins("JOIN lessons l ON l.id = q.lesson_id").
		Joins("JOIN modules m ON m.id = l.module_id").
		Joins("JOIN courses c ON c.id = m.course_id").
		Where("c.author_id = ?", authorID).
		Where("submissions.status = ?", models.SubmissionStatusPending).
		Order("submissions.created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// Create persists the submission and its answers atomically; GORM writes the
// answer associations in the same transaction.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// SaveGrades writes the graded answers and the recomputed submission in one
// transaction so a partial grade never becomes visible.
func (r *submissionRepository) SaveGrades(ctx context.Context, submission *models.Submission, answers []models.SubmissionAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			update := map[string]interface{}{
				"points":   answers[i].Points,
				"feedback": answers[i].Feedback,
			}
			if err := tx.Model(&models.SubmissionAnswer{}).
				Where("id = ? AND submission_id = ?", answers[i].ID, submission.ID).
				Updates(update).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Submission{}).
			Where("id = ?", submission.ID).
			Updates(map[string]interface{}{
				"score":     submission.Score,
				"status":    submission.Status,
				"feedback":  submission.Feedback,
				"graded_at": submission.GradedAt,
			}).Error
	})
}
