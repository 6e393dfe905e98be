package controller

import (
	"context"
	"encoding/json"
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

type stubChatService struct {
	listPaperId uuid.UUID
}

func (s *stubChatService) CreateSession(context.Context, uuid.UUID) (*dto.CreateChatSessionResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubChatService) GetSession(context.Context, string) (*dto.ChatSessionResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubChatService) CurrentSession(context.Context) (*dto.ChatSessionResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubChatService) Ask(context.Context, uuid.UUID, *dto.AskChatRequest) (*dto.AskChatResponse, error) {
	return nil, fiber.ErrNotImplemented
}

func (s *stubChatService) ListSessions(_ context.Context, paperId uuid.UUID) (*dto.ListChatSessionsResponse, error) {
	s.listPaperId = paperId
	return &dto.ListChatSessionsResponse{
		PaperId: paperId.String(),
		Sessions: []dto.ChatSessionResponse{
			{Id: "1700000000000-1", PaperId: paperId.String()},
			{Id: "1700000000000-2", PaperId: paperId.String()},
		},
		Total: 2,
	}, nil
}

func newChatTestApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestListSessionsRoute(t *testing.T) {
	svc := &stubChatService{}
	app := newChatTestApp(svc)

	id := uuid.New()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/chat/v1/"+id.String()+"/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                         `json:"success"`
		Data    dto.ListChatSessionsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, id, svc.listPaperId)
	assert.Equal(t, 2, body.Data.Total)
	assert.Len(t, body.Data.Sessions, 2)
}

func TestListSessionsRouteInvalidId(t *testing.T) {
	app := newChatTestApp(&stubChatService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/chat/v1/not-a-uuid/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
