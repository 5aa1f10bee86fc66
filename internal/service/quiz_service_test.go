package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
)

func correctOption(idx int) *int { return &idx }

func newQuizService(quizRepo *fakeQuizRepo, courseRepo *fakeCourseRepo) QuizService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewQuizService(quizRepo, courseRepo, validate, testLogger())
}

func validQuizPayload() dto.QuizCreateRequest {
	return dto.QuizCreateRequest{
		Title: "Basics",
		Questions: []dto.QuizQuestionRequest{
			{
				Text: "2+2?", Type: models.QuestionTypeChoice, Points: 10,
				Options: []string{"4", "5"}, CorrectOption: correctOption(0),
			},
			{Text: "Explain.", Type: models.QuestionTypeText, Points: 20},
		},
	}
}

func TestQuizServiceCreate(t *testing.T) {
	quizRepo := &fakeQuizRepo{lessonErr: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	result, err := svc.Create(context.Background(), 3, Actor{ID: 9, Role: models.RoleTeacher}, validQuizPayload())
	require.NoError(t, err)
	require.Equal(t, "Basics", result.Title)
	require.Len(t, result.Questions, 2)

	require.NotNil(t, quizRepo.created)
	require.Len(t, quizRepo.created.Questions[0].Options, 2)
	require.True(t, quizRepo.created.Questions[0].Options[0].IsCorrect)
	require.False(t, quizRepo.created.Questions[0].Options[1].IsCorrect)
	require.Empty(t, quizRepo.created.Questions[1].Options)
}

func TestQuizServiceCreateRequiresAuthor(t *testing.T) {
	quizRepo := &fakeQuizRepo{lessonErr: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	_, err := svc.Create(context.Background(), 3, Actor{ID: 8, Role: models.RoleTeacher}, validQuizPayload())
	require.ErrorIs(t, err, ErrNotCourseAuthor)
}

func TestQuizServiceCreateOnePerLesson(t *testing.T) {
	quizRepo := &fakeQuizRepo{quiz: models.Quiz{ID: 5, LessonID: 3}}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	_, err := svc.Create(context.Background(), 3, Actor{ID: 9, Role: models.RoleTeacher}, validQuizPayload())
	require.ErrorIs(t, err, ErrQuizAlreadyExists)
}

func TestQuizServiceCreateChoiceNeedsOptions(t *testing.T) {
	quizRepo := &fakeQuizRepo{lessonErr: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	payload := dto.QuizCreateRequest{
		Title: "Broken",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Pick one", Type: models.QuestionTypeChoice, Points: 10},
		},
	}
	_, err := svc.Create(context.Background(), 3, Actor{ID: 9, Role: models.RoleTeacher}, payload)
	require.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestQuizServiceCreateCorrectOptionOutOfRange(t *testing.T) {
	quizRepo := &fakeQuizRepo{lessonErr: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	payload := dto.QuizCreateRequest{
		Title: "Broken",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Pick one", Type: models.QuestionTypeChoice, Points: 10, Options: []string{"a", "b"}, CorrectOption: correctOption(2)},
		},
	}
	_, err := svc.Create(context.Background(), 3, Actor{ID: 9, Role: models.RoleTeacher}, payload)
	require.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestQuizServiceCreateTextCannotCarryOptions(t *testing.T) {
	quizRepo := &fakeQuizRepo{lessonErr: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	payload := dto.QuizCreateRequest{
		Title: "Broken",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Essay", Type: models.QuestionTypeText, Points: 10, Options: []string{"a", "b"}},
		},
	}
	_, err := svc.Create(context.Background(), 3, Actor{ID: 9, Role: models.RoleTeacher}, payload)
	require.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestQuizServiceGetStripsCorrectFlagsForStudents(t *testing.T) {
	quizRepo := &fakeQuizRepo{quiz: choiceQuiz()}
	courseRepo := &fakeCourseRepo{course: models.Course{ID: 1, AuthorID: 9}}
	svc := newQuizService(quizRepo, courseRepo)

	result, err := svc.Get(context.Background(), 7, Actor{ID: 42, Role: models.RoleStudent})
	require.NoError(t, err)
	for _, question := range result.Questions {
		for _, option := range question.Options {
			require.Nil(t, option.IsCorrect)
		}
	}

	authorView, err := svc.Get(context.Background(), 7, Actor{ID: 9, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.NotNil(t, authorView.Questions[0].Options[0].IsCorrect)
	require.True(t, *authorView.Questions[0].Options[0].IsCorrect)
}

func TestQuizServiceGetNotFound(t *testing.T) {
	quizRepo := &fakeQuizRepo{err: gorm.ErrRecordNotFound}
	courseRepo := &fakeCourseRepo{}
	svc := newQuizService(quizRepo, courseRepo)

	_, err := svc.Get(context.Background(), 404, Actor{ID: 42})
	require.ErrorIs(t, err, ErrQuizNotFound)
}
