package controller

import (
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	CurrentSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("session/current", c.CurrentSession)
	h.Get("session/:sessionId", c.ShowSession)
	h.Get(":paperId/sessions", c.ListSessions)
	h.Post(":paperId/session", c.CreateSession)
	h.Post(":paperId/ask", c.Ask)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	res, err := c.chatService.CreateSession(ctx.Context(), paperId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create chat session", res))
}

func (c *chatController) CurrentSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.CurrentSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get current session", res))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetSession(ctx.Context(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	res, err := c.chatService.ListSessions(ctx.Context(), paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	var req dto.AskChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Ask(ctx.Context(), paperId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask chat", res))
}
