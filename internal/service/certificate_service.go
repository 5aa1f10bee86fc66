package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/observability"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// NotEligibleError reports a certificate request made before the course is
// fully complete, with the counts a caller needs to render progress.
type NotEligibleError struct {
	Completed int
	Total     int
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("course not completed: %d of %d lessons", e.Completed, e.Total)
}

// CertificateService issues course-completion certificates. Issuance is
// idempotent: retries and concurrent calls converge on a single stored row.
type CertificateService interface {
	Issue(ctx context.Context, courseID uint, actor Actor) (dto.CertificateResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.CertificateResponse, error)
}

type certificateService struct {
	certificates repository.CertificateRepository
	courses      repository.CourseRepository
	users        repository.UserRepository
	progress     ProgressService
	activity     ActivityRecorder
	events       EventPublisher
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewCertificateService constructs the certificate issuer.
func NewCertificateService(certRepo repository.CertificateRepository, courseRepo repository.CourseRepository, userRepo repository.UserRepository, progress ProgressService, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) CertificateService {
	return &certificateService{
		certificates: certRepo,
		courses:      courseRepo,
		users:        userRepo,
		progress:     progress,
		activity:     activity,
		events:       events,
		logger:       logger.With().Str("component", "certificate_service").Logger(),
		tracer:       otel.Tracer("github.com/lumenlearn/lumen-api/internal/service/certificate"),
		now:          time.Now,
	}
}

// Issue gates certificate creation on 100% completion of the course's
// current lesson set. The (user, course) unique index is the real guard
// against concurrent duplicates; losing the insert race means another call
// already issued, so the winner's row is re-read and returned.
func (s *certificateService) Issue(ctx context.Context, courseID uint, actor Actor) (dto.CertificateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "certificate.issue")
	span.SetAttributes(
		attribute.Int64("certificate.course_id", int64(courseID)),
		attribute.Int64("certificate.actor_id", int64(actor.ID)),
	)
	defer span.End()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "course_not_found")
			return dto.CertificateResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.CertificateResponse{}, err
	}

	completed, total, err := s.progress.CourseCompletion(ctx, course, actor.ID)
	if err != nil {
		span.RecordError(err)
		return dto.CertificateResponse{}, err
	}

	if total == 0 || completed < total {
		err := &NotEligibleError{Completed: completed, Total: total}
		span.SetStatus(codes.Error, "not_eligible")
		span.SetAttributes(
			attribute.Int("certificate.completed_lessons", completed),
			attribute.Int("certificate.total_lessons", total),
		)
		return dto.CertificateResponse{}, err
	}

	if existing, err := s.certificates.GetByUserAndCourse(ctx, actor.ID, courseID); err == nil {
		span.SetAttributes(attribute.Bool("certificate.already_issued", true))
		return dto.NewCertificateResponse(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.CertificateResponse{}, err
	}

	student, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		span.RecordError(err)
		return dto.CertificateResponse{}, err
	}

	issuedAt := s.now()
	certificate := models.Certificate{
		SerialNo:    s.generateSerial(issuedAt),
		UserID:      actor.ID,
		CourseID:    courseID,
		StudentName: student.DisplayName(),
		CourseTitle: course.Title,
		IssuedAt:    issuedAt,
	}

	if err := s.certificates.Create(ctx, &certificate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, readErr := s.certificates.GetByUserAndCourse(ctx, actor.ID, courseID)
			if readErr != nil {
				span.RecordError(readErr)
				return dto.CertificateResponse{}, readErr
			}
			span.SetAttributes(attribute.Bool("certificate.lost_create_race", true))
			return dto.NewCertificateResponse(winner), nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "certificate_create_failed")
		return dto.CertificateResponse{}, err
	}

	observability.CertificatesIssued().Inc()
	s.events.Publish(ctx, EventCertificateIssued, map[string]interface{}{
		"certificate_id": certificate.ID,
		"serial_no":      certificate.SerialNo,
		"user_id":        actor.ID,
		"course_id":      courseID,
	})

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "certificate.issued",
			EntityType: "certificate",
			EntityID:   &certificate.ID,
			Metadata: map[string]interface{}{
				"course_id": courseID,
				"serial_no": certificate.SerialNo,
			},
		})
	}

	s.logger.Info().
		Str("serial_no", certificate.SerialNo).
		Uint("course_id", courseID).
		Uint("user_id", actor.ID).
		Msg("certificate issued")

	return dto.NewCertificateResponse(certificate), nil
}

func (s *certificateService) ListMine(ctx context.Context, actor Actor) ([]dto.CertificateResponse, error) {
	certificates, err := s.certificates.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewCertificateResponseSlice(certificates), nil
}

func (s *certificateService) generateSerial(issuedAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("CERT-%d-%s", issuedAt.UnixMilli(), suffix)
}
