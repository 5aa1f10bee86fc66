package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/grading"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// ErrLessonNotFound indicates the referenced lesson does not exist.
var ErrLessonNotFound = errors.New("lesson not found")

// ProgressService toggles lesson completion and derives per-course
// completion percentages. The aggregate is recomputed on every read (with a
// short-lived cache); nothing persists a "course progress" row, so lessons
// added mid-course are always reflected.
type ProgressService interface {
	Toggle(ctx context.Context, lessonID uint, actor Actor) (dto.ProgressResponse, error)
	Overview(ctx context.Context, actor Actor) ([]dto.CourseProgressResponse, error)
	CourseCompletion(ctx context.Context, course models.Course, userID uint) (completed, total int, err error)
}

type progressService struct {
	progress    repository.ProgressRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProgressService builds the completion tracker.
func NewProgressService(progressRepo repository.ProgressRepository, enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ProgressService {
	return &progressService{
		progress:    progressRepo,
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "progress_service").Logger(),
		now:         time.Now,
	}
}

// Toggle flips the completion flag for (actor, lesson), creating the row on
// first interaction. A concurrent first toggle can lose the insert race; the
// unique index turns that into a re-read and toggle of the winner's row.
func (s *progressService) Toggle(ctx context.Context, lessonID uint, actor Actor) (dto.ProgressResponse, error) {
	if _, err := s.courses.GetLesson(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, ErrLessonNotFound
		}
		return dto.ProgressResponse{}, err
	}

	existing, err := s.progress.GetByUserAndLesson(ctx, actor.ID, lessonID)
	switch {
	case err == nil:
		return s.toggleExisting(ctx, existing, actor)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return dto.ProgressResponse{}, err
	}

	completedAt := s.now()
	created := models.Progress{
		UserID:      actor.ID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &completedAt,
	}
	if err := s.progress.Create(ctx, &created); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, readErr := s.progress.GetByUserAndLesson(ctx, actor.ID, lessonID)
			if readErr != nil {
				return dto.ProgressResponse{}, readErr
			}
			return s.toggleExisting(ctx, winner, actor)
		}
		return dto.ProgressResponse{}, err
	}

	s.invalidateOverview(ctx, actor.ID)
	s.logger.Info().Uint("lesson_id", lessonID).Uint("user_id", actor.ID).Msg("lesson marked complete")

	return dto.NewProgressResponse(created), nil
}

func (s *progressService) toggleExisting(ctx context.Context, progress models.Progress, actor Actor) (dto.ProgressResponse, error) {
	progress.Completed = !progress.Completed
	if progress.Completed {
		completedAt := s.now()
		progress.CompletedAt = &completedAt
	} else {
		progress.CompletedAt = nil
	}

	if err := s.progress.Update(ctx, &progress); err != nil {
		return dto.ProgressResponse{}, err
	}

	s.invalidateOverview(ctx, actor.ID)
	s.logger.Info().
		Uint("lesson_id", progress.LessonID).
		Uint("user_id", actor.ID).
		Bool("completed", progress.Completed).
		Msg("lesson progress toggled")

	return dto.NewProgressResponse(progress), nil
}

// Overview reports the derived completion percentage for every course the
// actor is enrolled in. An empty enrollment list is a valid, empty result.
func (s *progressService) Overview(ctx context.Context, actor Actor) ([]dto.CourseProgressResponse, error) {
	cacheKey := s.overviewCacheKey(actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response []dto.CourseProgressResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", actor.ID).Msg("progress overview cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress cache")
		}
	}

	enrollments, err := s.enrollments.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	response := make([]dto.CourseProgressResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		completed, total, err := s.CourseCompletion(ctx, enrollment.Course, actor.ID)
		if err != nil {
			return nil, err
		}
		response = append(response, dto.CourseProgressResponse{
			CourseID:         enrollment.CourseID,
			CourseTitle:      enrollment.Course.Title,
			CompletedLessons: completed,
			TotalLessons:     total,
			ProgressPercent:  grading.Percent(completed, total),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress cache")
			}
		}
	}

	return response, nil
}

// CourseCompletion counts completed versus total lessons for one user in one
// course. A course with zero lessons reports 0/0.
func (s *progressService) CourseCompletion(ctx context.Context, course models.Course, userID uint) (int, int, error) {
	lessonIDs := course.LessonIDs()
	if len(lessonIDs) == 0 {
		return 0, 0, nil
	}

	completed, err := s.progress.CountCompleted(ctx, userID, lessonIDs)
	if err != nil {
		return 0, 0, err
	}

	return int(completed), len(lessonIDs), nil
}

func (s *progressService) overviewCacheKey(userID uint) string {
	return fmt.Sprintf("progress:overview:%d", userID)
}

func (s *progressService) invalidateOverview(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.overviewCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate progress cache")
	}
}
