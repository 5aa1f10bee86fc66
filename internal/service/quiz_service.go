package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// ErrQuizAlreadyExists indicates the lesson already carries a quiz.
var ErrQuizAlreadyExists = errors.New("lesson already has a quiz")

// ErrInvalidQuestion indicates an authored question is structurally invalid.
var ErrInvalidQuestion = errors.New("invalid question")

// QuizService handles quiz authoring and retrieval.
type QuizService interface {
	Create(ctx context.Context, lessonID uint, actor Actor, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Get(ctx context.Context, quizID uint, actor Actor) (dto.QuizResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizRepo repository.QuizRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizRepo,
		courses:   courseRepo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

// Create authors a quiz on a lesson the actor owns. Nothing here enforces
// exactly one correct option per CHOICE question; the grading engine fails
// closed when the author marks none.
func (s *quizService) Create(ctx context.Context, lessonID uint, actor Actor, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	course, err := s.courses.GetByLessonID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrLessonNotFound
		}
		return dto.QuizResponse{}, err
	}
	if course.AuthorID != actor.ID {
		return dto.QuizResponse{}, ErrNotCourseAuthor
	}

	if _, err := s.quizzes.GetByLessonID(ctx, lessonID); err == nil {
		return dto.QuizResponse{}, ErrQuizAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		LessonID: lessonID,
		Title:    s.sanitizer.Sanitize(payload.Title),
		Duration: payload.Duration,
	}

	for i, questionReq := range payload.Questions {
		question := models.Question{
			Text:   s.sanitizer.Sanitize(questionReq.Text),
			Type:   questionReq.Type,
			Points: questionReq.Points,
		}

		switch questionReq.Type {
		case models.QuestionTypeChoice:
			if len(questionReq.Options) == 0 {
				return dto.QuizResponse{}, fmt.Errorf("%w: question %d needs options", ErrInvalidQuestion, i+1)
			}
			if questionReq.CorrectOption != nil && *questionReq.CorrectOption >= len(questionReq.Options) {
				return dto.QuizResponse{}, fmt.Errorf("%w: question %d correct_option out of range", ErrInvalidQuestion, i+1)
			}
			for optionIdx, optionText := range questionReq.Options {
				question.Options = append(question.Options, models.Option{
					Text:      s.sanitizer.Sanitize(optionText),
					IsCorrect: questionReq.CorrectOption != nil && optionIdx == *questionReq.CorrectOption,
				})
			}
		case models.QuestionTypeText, models.QuestionTypeFile:
			if len(questionReq.Options) > 0 {
				return dto.QuizResponse{}, fmt.Errorf("%w: question %d of type %s cannot carry options", ErrInvalidQuestion, i+1, questionReq.Type)
			}
		}

		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("lesson_id", lessonID).Msg("quiz created")

	return dto.NewQuizResponse(quiz, true), nil
}

// Get returns the quiz. Correctness flags are stripped unless the actor
// authored the owning course.
func (s *quizService) Get(ctx context.Context, quizID uint, actor Actor) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	includeCorrect := false
	if course, err := s.courses.GetByQuizID(ctx, quizID); err == nil {
		includeCorrect = course.AuthorID == actor.ID
	}

	return dto.NewQuizResponse(quiz, includeCorrect), nil
}
