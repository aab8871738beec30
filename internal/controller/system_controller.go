package controller

import (
	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type systemController struct {
	db          *gorm.DB
	llmProvider string
}

func NewSystemController(db *gorm.DB, llmProvider string) ISystemController {
	return &systemController{
		db:          db,
		llmProvider: llmProvider,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/v1")
	h.Get("health", c.Health)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Llm:      c.llmProvider,
	}

	sqlDB, err := c.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
	}

	return ctx.JSON(serverutils.SuccessResponse("Success health check", res))
}
