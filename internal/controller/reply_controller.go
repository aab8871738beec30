package controller

import (
	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/serverutils"
	"mailfloww-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReplyController interface {
	RegisterRoutes(r fiber.Router)
	GenerateReply(ctx *fiber.Ctx) error
	SendReply(ctx *fiber.Ctx) error
	ShowRun(ctx *fiber.Ctx) error
}

type replyController struct {
	replyService service.IReplyService
}

func NewReplyController(replyService service.IReplyService) IReplyController {
	return &replyController{
		replyService: replyService,
	}
}

func (c *replyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reply/v1")
	h.Use(serverutils.ServiceAuthMiddleware)
	h.Post("generate-reply", c.GenerateReply)
	h.Post("send-reply", c.SendReply)
	h.Get("runs/:id", c.ShowRun)
}

func (c *replyController) GenerateReply(ctx *fiber.Ctx) error {
	var req dto.GenerateReplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.replyService.GenerateReply(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate reply", res))
}

func (c *replyController) SendReply(ctx *fiber.Ctx) error {
	var req dto.SendReplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.replyService.SendReply(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send reply", res))
}

func (c *replyController) ShowRun(ctx *fiber.Ctx) error {
	runId := ctx.Params("id")

	res, err := c.replyService.ShowRun(ctx.Context(), runId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).
			JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Run not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show run", res))
}
