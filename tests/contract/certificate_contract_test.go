package contract_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen-api/internal/dto"
	"github.com/lumenlearn/lumen-api/internal/handler"
	"github.com/lumenlearn/lumen-api/internal/service"
)

type stubCertificateService struct {
	response dto.CertificateResponse
}

func (s stubCertificateService) Issue(context.Context, uint, service.Actor) (dto.CertificateResponse, error) {
	return s.response, nil
}

func (s stubCertificateService) ListMine(context.Context, service.Actor) ([]dto.CertificateResponse, error) {
	return []dto.CertificateResponse{s.response}, nil
}

func TestCertificateContract(t *testing.T) {
	schema := compileSchema(t, "certificate.schema.json")

	certificate := dto.CertificateResponse{
		ID:          9,
		SerialNo:    "CERT-1756700000000-3F2A9B1C4",
		CourseID:    4,
		StudentName: "Sinta",
		CourseTitle: "Intro to Go",
		IssuedAt:    time.Now().UTC(),
	}

	certificateHandler := handler.NewCertificateHandler(stubCertificateService{response: certificate}, zerolog.Nop())

	app := fiber.New()
	certificateHandler.RegisterIssue(app.Group("/api/v1/courses"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses/4/certificate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	validateResponse(t, resp, schema)
}
