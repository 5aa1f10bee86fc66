package service

import (
	"context"
	"errors"
	"fmt"
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

// ErrNotCourseAuthor indicates the actor does not own the submission's course.
var ErrNotCourseAuthor = errors.New("not the course author")

// ErrAnswerNotFound indicates a graded answer ID does not belong to the submission.
var ErrAnswerNotFound = errors.New("answer not found on submission")

// ErrChoiceAnswerNotGradable indicates a teacher tried to re-enter points for
// an auto-graded CHOICE answer.
var ErrChoiceAnswerNotGradable = errors.New("choice answers are graded automatically")

// PointsOutOfRangeError reports a teacher-supplied points value outside the
// question's [0, max] range. It is surfaced, never clamped.
type PointsOutOfRangeError struct {
	AnswerID uint
	Points   int
	Max      int
}

func (e *PointsOutOfRangeError) Error() string {
	return fmt.Sprintf("points %d for answer %d outside range [0, %d]", e.Points, e.AnswerID, e.Max)
}

// GradingService merges teacher-supplied grades into submissions and serves
// the grading queue.
type GradingService interface {
	ListPending(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error)
	GetForGrading(ctx context.Context, submissionID uint, actor Actor) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, submissionID uint, actor Actor, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradingService constructs the manual grading service.
func NewGradingService(subRepo repository.SubmissionRepository, courseRepo repository.CourseRepository, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: subRepo,
		courses:     courseRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		events:      events,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/lumenlearn/lumen-api/internal/service/grading"),
		now:         time.Now,
	}
}

func (s *gradingService) ListPending(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListPendingByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *gradingService) GetForGrading(ctx context.Context, submissionID uint, actor Actor) (dto.SubmissionResponse, error) {
	submission, err := s.loadOwnedSubmission(ctx, submissionID, actor)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	// Graders see the correctness flags.
	return dto.NewSubmissionResponse(submission, true), nil
}

// Grade records the teacher's per-answer points and feedback, then recomputes
// the final score from the full answer set. Re-grading an already GRADED
// submission is a legal overwrite, not an error.
func (s *gradingService) Grade(ctx context.Context, submissionID uint, actor Actor, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.merge")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		observability.GradingLatency().Observe(time.Since(start).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.loadOwnedSubmission(ctx, submissionID, actor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_load_failed")
		return dto.SubmissionResponse{}, err
	}

	answersByID := make(map[uint]*models.SubmissionAnswer, len(submission.Answers))
	for i := range submission.Answers {
		answersByID[submission.Answers[i].ID] = &submission.Answers[i]
	}

	updated := make([]models.SubmissionAnswer, 0, len(payload.AnswerGrades))
	for _, answerGrade := range payload.AnswerGrades {
		answer, ok := answersByID[answerGrade.AnswerID]
		if !ok {
			span.SetStatus(codes.Error, "answer_not_found")
			return dto.SubmissionResponse{}, fmt.Errorf("%w: %d", ErrAnswerNotFound, answerGrade.AnswerID)
		}
		if answer.Question.Type == models.QuestionTypeChoice {
			span.SetStatus(codes.Error, "choice_answer_rejected")
			return dto.SubmissionResponse{}, fmt.Errorf("%w: answer %d", ErrChoiceAnswerNotGradable, answerGrade.AnswerID)
		}
		if answerGrade.Points < 0 || answerGrade.Points > answer.Question.Points {
			err := &PointsOutOfRangeError{
				AnswerID: answerGrade.AnswerID,
				Points:   answerGrade.Points,
				Max:      answer.Question.Points,
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "points_out_of_range")
			return dto.SubmissionResponse{}, err
		}

		points := answerGrade.Points
		answer.Points = &points
		answer.Feedback = s.sanitizer.Sanitize(answerGrade.Feedback)
		updated = append(updated, *answer)
	}

	wasPending := submission.Status == models.SubmissionStatusPending

	finalScore := grading.FinalScore(submission.Answers)
	gradedAt := s.now()

	submission.Score = &finalScore
	submission.Status = models.SubmissionStatusGraded
	submission.Feedback = s.sanitizer.Sanitize(payload.OverallFeedback)
	submission.GradedAt = &gradedAt

	if err := s.submissions.SaveGrades(ctx, &submission, updated); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_persist_failed")
		return dto.SubmissionResponse{}, err
	}

	observability.ManualGrades().Inc()
	// a re-grade leaves the backlog untouched
	if wasPending {
		observability.PendingGrading().Dec()
	}
	s.events.Publish(ctx, EventSubmissionGraded, map[string]interface{}{
		"submission_id": submission.ID,
		"quiz_id":       submission.QuizID,
		"user_id":       submission.UserID,
		"score":         finalScore,
		"graded_by":     actor.ID,
	})

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"quiz_id": submission.QuizID,
				"user_id": submission.UserID,
				"score":   finalScore,
			},
		})
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Int("score", finalScore).
		Msg("submission graded")

	span.SetAttributes(attribute.Int("grading.final_score", finalScore))

	return dto.NewSubmissionResponse(submission, true), nil
}

func (s *gradingService) loadOwnedSubmission(ctx context.Context, submissionID uint, actor Actor) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	course, err := s.courses.GetByQuizID(ctx, submission.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if course.AuthorID != actor.ID {
		return models.Submission{}, ErrNotCourseAuthor
	}

	return submission, nil
}
