package controller

import (
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
	Models(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAiService
}

func NewAiController(aiService service.IAiService) IAiController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Post("ask", c.Ask)
	h.Post("summarize/:paperId", c.Summarize)
	h.Get("models", c.Models)
}

func (c *aiController) Ask(ctx *fiber.Ctx) error {
	var req dto.AiAskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask ai", res))
}

func (c *aiController) Summarize(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	res, err := c.aiService.Summarize(ctx.Context(), paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize paper", res))
}

func (c *aiController) Models(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list models", c.aiService.Models()))
}
