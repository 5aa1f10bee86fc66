package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumenlearn/lumen-api/internal/service"
	"github.com/lumenlearn/lumen-api/internal/utils"
)

// ActivityHandler exposes the grading audit trail to course staff.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler builds an activity handler instance.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the activity feed route.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	var actorID *uint
	if raw := c.Query("actor_id"); raw != "" {
		parsed, err := parseQueryInt(c, "actor_id")
		if err != nil || parsed < 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid actor_id")
		}
		id := uint(parsed)
		actorID = &id
	}

	entries, err := h.service.List(c.Context(), actorID, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}
