package controller

import (
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReaderController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	NoteChange(ctx *fiber.Ctx) error
	SaveNote(ctx *fiber.Ctx) error
	AddHighlight(ctx *fiber.Ctx) error
	UndoHighlight(ctx *fiber.Ctx) error
	RedoHighlight(ctx *fiber.Ctx) error
	Highlights(ctx *fiber.Ctx) error
}

type readerController struct {
	readerService service.IReaderService
}

func NewReaderController(readerService service.IReaderService) IReaderController {
	return &readerController{
		readerService: readerService,
	}
}

func (c *readerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reader/v1")
	h.Post(":paperId/open", c.Open)
	h.Post(":paperId/close", c.Close)
	h.Put(":paperId/note", c.NoteChange)
	h.Post(":paperId/note/save", c.SaveNote)
	h.Post(":paperId/highlight", c.AddHighlight)
	h.Post(":paperId/highlight/undo", c.UndoHighlight)
	h.Post(":paperId/highlight/redo", c.RedoHighlight)
	h.Get(":paperId/highlights", c.Highlights)
}

func (c *readerController) Open(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	res, err := c.readerService.Open(ctx.Context(), paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open reader", res))
}

func (c *readerController) Close(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	c.readerService.Close(paperId)
	return ctx.JSON(serverutils.SuccessResponse("Success close reader", fiber.Map{"paper_id": paperId}))
}

// NoteChange records an edit and schedules the debounced autosave.
func (c *readerController) NoteChange(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	var req dto.NoteChangeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.readerService.OnNoteChange(paperId, req.Content); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Change recorded", fiber.Map{"paper_id": paperId}))
}

// SaveNote persists immediately, bypassing the debounce window.
func (c *readerController) SaveNote(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	var req dto.NoteChangeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.readerService.SaveNote(ctx.Context(), paperId, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save note", res))
}

func (c *readerController) AddHighlight(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	var req dto.AddHighlightRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.readerService.AddHighlight(paperId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add highlight", res))
}

func (c *readerController) UndoHighlight(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	res, err := c.readerService.UndoHighlight(paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success undo highlight", res))
}

func (c *readerController) RedoHighlight(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	res, err := c.readerService.RedoHighlight(paperId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success redo highlight", res))
}

func (c *readerController) Highlights(ctx *fiber.Ctx) error {
	paperId, err := parsePaperId(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 0)
	res, err := c.readerService.Highlights(paperId, page)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list highlights", res))
}

func parsePaperId(ctx *fiber.Ctx) (uuid.UUID, error) {
	paperId, err := uuid.Parse(ctx.Params("paperId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}
	return paperId, nil
}
