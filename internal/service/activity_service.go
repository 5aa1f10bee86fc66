package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/models"
	"github.com/lumenlearn/lumen-api/internal/repository"
)

// Actor is the authenticated identity performing an operation. It is passed
// explicitly into every service call; nothing reads session state ambiently.
type Actor struct {
	ID   uint
	Role string
}

// IsTeacher reports whether the actor may author quizzes and grade.
func (a Actor) IsTeacher() bool {
	return a.Role == models.RoleTeacher || a.Role == models.RoleAdmin
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	ActorID    uint
	ActorRole  string
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit events.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes methods to query and persist the audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, actorID *uint, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityService constructs the audit trail service.
func NewActivityService(repo repository.ActivityLogRepository, validator *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	row := models.ActivityLog{
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &row); err != nil {
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(row), nil
}

func (s *activityService) List(ctx context.Context, actorID *uint, limit int) ([]dto.ActivityResponse, error) {
	rows, err := s.repo.List(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.NewActivityResponse(row))
	}
	return responses, nil
}
