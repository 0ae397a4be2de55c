package controller

import (
	"github.com/gofiber/fiber/v2"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/serverutils"
	"ambubot-be/internal/service"
)

type ILocationController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	FindFacilities(ctx *fiber.Ctx) error
}

type locationController struct {
	service service.ILocationService
}

func NewLocationController(service service.ILocationService) ILocationController {
	return &locationController{service: service}
}

func (c *locationController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/location/v1")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Get("/facilities", c.FindFacilities)
}

func (c *locationController) FindFacilities(ctx *fiber.Ctx) error {
	var req dto.FacilityLookupRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.FindFacilities(ctx.UserContext(), req.Query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success find facilities", res))
}
