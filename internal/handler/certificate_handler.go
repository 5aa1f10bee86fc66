package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumenlearn/lumen-api/internal/service"
	"github.com/lumenlearn/lumen-api/internal/utils"
)

// CertificateHandler manages certificate issuance and listing endpoints.
type CertificateHandler struct {
	service service.CertificateService
	logger  zerolog.Logger
}

// NewCertificateHandler builds a certificate handler instance.
func NewCertificateHandler(service service.CertificateService, logger zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		service: service,
		logger:  logger.With().Str("component", "certificate_handler").Logger(),
	}
}

// RegisterIssue attaches the issuance route to the courses group.
func (h *CertificateHandler) RegisterIssue(router fiber.Router) {
	router.Post("/:id/certificate", h.issue)
}

// Register attaches the certificate listing route.
func (h *CertificateHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *CertificateHandler) issue(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := h.service.Issue(c.Context(), courseID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "certificate issued", certificate)
}

func (h *CertificateHandler) list(c *fiber.Ctx) error {
	certificates, err := h.service.ListMine(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "certificates retrieved", certificates)
}

func (h *CertificateHandler) handleError(c *fiber.Ctx, err error) error {
	var notEligible *service.NotEligibleError
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &notEligible):
		return utils.SendError(c, fiber.StatusBadRequest, notEligible.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
