package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumenlearn/lumen-api/internal/service"
	"github.com/lumenlearn/lumen-api/internal/utils"
)

// ProgressHandler manages lesson completion tracking endpoints.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler builds a progress handler instance.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// RegisterToggle attaches the completion toggle route to the lessons group.
func (h *ProgressHandler) RegisterToggle(router fiber.Router) {
	router.Post("/:id/progress", h.toggle)
}

// Register attaches the progress overview route.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
}

func (h *ProgressHandler) toggle(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	progress, err := h.service.Toggle(c.Context(), lessonID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "progress updated", progress)
}

func (h *ProgressHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "progress retrieved", overview)
}

func (h *ProgressHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
