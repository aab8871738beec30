package controller

import (
	"io"

	"mailfloww-be/internal/dto"
	"mailfloww-be/internal/pkg/serverutils"
	"mailfloww-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	StoreEmail(ctx *fiber.Ctx) error
	ProcessDocument(ctx *fiber.Ctx) error
	FetchEmails(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestService  service.IIngestService
	fetcherService service.IFetcherService
}

func NewIngestController(ingestService service.IIngestService, fetcherService service.IFetcherService) IIngestController {
	return &ingestController{
		ingestService:  ingestService,
		fetcherService: fetcherService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingest/v1")
	h.Use(serverutils.ServiceAuthMiddleware)
	h.Post("store-email", c.StoreEmail)
	h.Post("process-company-document", c.ProcessDocument)
	h.Post("fetch-emails", c.FetchEmails)
	h.Get("stats", c.Stats)
}

func (c *ingestController) StoreEmail(ctx *fiber.Ctx) error {
	var req dto.StoreEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.StoreEmail(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success store email", res))
}

func (c *ingestController) ProcessDocument(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.ingestService.ProcessDocument(ctx.Context(), fileHeader.Filename, content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process document", res))
}

func (c *ingestController) FetchEmails(ctx *fiber.Ctx) error {
	res, err := c.fetcherService.FetchAndQueue(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch emails", res))
}

func (c *ingestController) Stats(ctx *fiber.Ctx) error {
	res, err := c.ingestService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get ingest stats", res))
}
