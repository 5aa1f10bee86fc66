package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/grading"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/observability"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// ErrQuizNotFound indicates the referenced quiz does not exist.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNotSubmissionOwner indicates the actor does not own the submission.
var ErrNotSubmissionOwner = errors.New("not the submission owner")

// SubmissionService orchestrates quiz attempts. Every submit creates a new
// submission; attempts are unlimited and all retained.
type SubmissionService interface {
	Submit(ctx context.Context, quizID uint, actor Actor, payload dto.SubmitQuizRequest) (dto.SubmitQuizResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	quizzes     repository.QuizRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, quizRepo repository.QuizRepository, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		quizzes:     quizRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/lumenlearn/lumen-api/internal/service/submission"),
	}
}

func (s *submissionService) Submit(ctx context.Context, quizID uint, actor Actor, payload dto.SubmitQuizRequest) (dto.SubmitQuizResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create")
	span.SetAttributes(
		attribute.Int64("submission.quiz_id", int64(quizID)),
		attribute.Int64("submission.actor_id", int64(actor.ID)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		observability.SubmitLatency().Observe(time.Since(start).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmitQuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "quiz_not_found")
			return dto.SubmitQuizResponse{}, ErrQuizNotFound
		}
		span.RecordError(err)
		return dto.SubmitQuizResponse{}, err
	}

	result, err := grading.Grade(quiz.Questions, payload.Answers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return dto.SubmitQuizResponse{}, err
	}

	status, score := grading.InitialState(result)

	submission := models.Submission{
		QuizID: quiz.ID,
		UserID: actor.ID,
		Status: status,
		Score:  score,
	}
	for _, draft := range result.Answers {
		submission.Answers = append(submission.Answers, models.SubmissionAnswer{
			QuestionID:       draft.QuestionID,
			SelectedOptionID: draft.SelectedOptionID,
			AnswerText:       s.sanitizer.Sanitize(draft.AnswerText),
			FileURL:          draft.FileURL,
			Points:           draft.Points,
		})
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_create_failed")
		return dto.SubmitQuizResponse{}, err
	}

	observability.Submissions().WithLabelValues(status).Inc()
	if status == models.SubmissionStatusPending {
		observability.PendingGrading().Inc()
	}
	s.events.Publish(ctx, EventSubmissionCreated, map[string]interface{}{
		"submission_id": submission.ID,
		"quiz_id":       quiz.ID,
		"user_id":       actor.ID,
		"status":        status,
	})

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("quiz_id", quiz.ID).
		Str("status", status).
		Bool("needs_manual_grading", result.NeedsManualGrading()).
		Msg("submission created")

	span.SetAttributes(
		attribute.String("submission.status", status),
		attribute.Bool("submission.needs_manual_grading", result.NeedsManualGrading()),
	)

	return dto.SubmitQuizResponse{
		SubmissionID:       submission.ID,
		Score:              score,
		Status:             status,
		NeedsManualGrading: result.NeedsManualGrading(),
	}, nil
}

func (s *submissionService) ListMine(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id uint, actor Actor) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.UserID != actor.ID {
		return dto.SubmissionResponse{}, ErrNotSubmissionOwner
	}

	return dto.NewSubmissionResponse(submission, false), nil
}
