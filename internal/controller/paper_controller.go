package controller

import (
	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/serverutils"
	"ai-paper-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaperController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Content(ctx *fiber.Ctx) error
	Text(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type paperController struct {
	paperService service.IPaperService
}

func NewPaperController(paperService service.IPaperService) IPaperController {
	return &paperController{
		paperService: paperService,
	}
}

func (c *paperController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/paper/v1")
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Get("search", c.Search)
	h.Get(":id", c.Show)
	h.Get(":id/content", c.Content)
	h.Get(":id/text", c.Text)
	h.Delete(":id", c.Delete)
}

func (c *paperController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file field in multipart form")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
	}
	defer file.Close()

	res, err := c.paperService.Upload(ctx.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload paper", res))
}

func (c *paperController) List(ctx *fiber.Ctx) error {
	res, err := c.paperService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list papers", res))
}

func (c *paperController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query parameter 'q' is required")
	}

	res, err := c.paperService.Search(ctx.Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search papers", res))
}

func (c *paperController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	res, err := c.paperService.Get(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get paper", res))
}

// Content streams the raw PDF bytes.
func (c *paperController) Content(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	path, err := c.paperService.ContentPath(ctx.Context(), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	return ctx.SendFile(path)
}

// Text returns extracted plain text, optionally limited to a page range
// via ?from= and ?to= (1-based, inclusive).
func (c *paperController) Text(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	from := ctx.QueryInt("from", 0)
	to := ctx.QueryInt("to", 0)

	res, err := c.paperService.Text(ctx.Context(), id, from, to)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success extract paper text", res))
}

func (c *paperController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid paper id")
	}

	if err := c.paperService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete paper", dto.DeletePaperResponse{Id: id}))
}
