package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// ErrAlreadyEnrolled indicates the student is already enrolled in the course.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// EnrollmentService manages course enrollment.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, actor Actor) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	logger      zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll creates the enrollment row; the (user, course) unique index turns a
// concurrent double-enroll into ErrAlreadyEnrolled instead of a duplicate.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, actor Actor) (dto.EnrollmentResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{UserID: actor.ID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment.Course = course
	s.logger.Info().Uint("course_id", courseID).Uint("user_id", actor.ID).Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}
