package controller

import (
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Append(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Get(":paperId", c.Show)
	h.Put(":paperId", c.Save)
	h.Patch(":paperId", c.Append)
	h.Delete(":paperId", c.Delete)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	res, err := c.noteService.Get(ctx.Context(), paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note", res))
}

func (c *noteController) Save(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	var req dto.SaveNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.noteService.Save(ctx.Context(), paperId, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save note", res))
}

func (c *noteController) Append(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	var req dto.AppendNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Append(ctx.Context(), paperId, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	if err := c.noteService.Delete(ctx.Context(), paperId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", fiber.Map{"paper_id": paperId}))
}
