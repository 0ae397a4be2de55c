package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/serverutils"
	"ambubot-be/internal/service"
)

type ICorpusController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
}

type corpusController struct {
	service service.ICorpusService
}

func NewCorpusController(service service.ICorpusService) ICorpusController {
	return &corpusController{service: service}
}

func (c *corpusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/corpus/v1")
	h.Get("/status", c.Status)
	h.Post("/ingest", c.Ingest)
}

func (c *corpusController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.Status(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get corpus status", res))
}

func (c *corpusController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestCorpusRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.QueueIngest(ctx.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCorpusPathRequired):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCorpusFileNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Ingestion queued", res))
}
