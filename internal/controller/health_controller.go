package controller

import (
	"ai-paper-reader-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Live(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type healthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) IHealthController {
	return &healthController{db: db}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Live)
	h.Get("ready", c.Ready)
}

func (c *healthController) Live(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "live"}))
}

// Ready also checks the database connection.
func (c *healthController) Ready(ctx *fiber.Ctx) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Database handle unavailable")
	}
	if err := sqlDB.PingContext(ctx.Context()); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Database unreachable")
	}

	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "ready"}))
}
