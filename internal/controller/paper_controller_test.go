package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaperService struct {
	textPaperId uuid.UUID
	textFrom    int
	textTo      int
}

func (s *stubPaperService) Upload(context.Context, string, int64, io.Reader) (*dto.PaperResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubPaperService) List(context.Context) (*dto.ListPapersResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubPaperService) Search(context.Context, string) (*dto.ListPapersResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubPaperService) Get(context.Context, uuid.UUID) (*dto.PaperResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubPaperService) ContentPath(context.Context, uuid.UUID) (string, error) {
	return "", fiber.ErrNotImplemented
}

func (s *stubPaperService) Delete(context.Context, uuid.UUID) error {
	return fiber.ErrNotImplemented
}

func (s *stubPaperService) Text(_ context.Context, id uuid.UUID, fromPage, toPage int) (*dto.PaperTextResponse, error) {
	s.textPaperId = id
	s.textFrom = fromPage
	s.textTo = toPage
	return &dto.PaperTextResponse{Id: id, FromPage: fromPage, ToPage: toPage, Text: "extracted text"}, nil
}

func newPaperTestApp(svc service.IPaperService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewPaperController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestPaperTextRoute(t *testing.T) {
	svc := &stubPaperService{}
	app := newPaperTestApp(svc)

	id := uuid.New()
	req := httptest.NewRequest("GET", "/api/paper/v1/"+id.String()+"/text?from=2&to=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                  `json:"success"`
		Data    dto.PaperTextResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "extracted text", body.Data.Text)

	assert.Equal(t, id, svc.textPaperId)
	assert.Equal(t, 2, svc.textFrom)
	assert.Equal(t, 5, svc.textTo)
}

func TestPaperTextRouteDefaultsToWholeDocument(t *testing.T) {
	svc := &stubPaperService{textFrom: -1, textTo: -1}
	app := newPaperTestApp(svc)

	id := uuid.New()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/paper/v1/"+id.String()+"/text", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, svc.textFrom)
	assert.Equal(t, 0, svc.textTo)
}

func TestPaperTextRouteInvalidId(t *testing.T) {
	app := newPaperTestApp(&stubPaperService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/paper/v1/not-a-uuid/text", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
