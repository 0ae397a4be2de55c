package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/serverutils"
	"ambubot-be/internal/service"
)

type IIntakeController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Advance(ctx *fiber.Ctx) error
	Restart(ctx *fiber.Ctx) error
}

type intakeController struct {
	service service.IIntakeService
}

func NewIntakeController(service service.IIntakeService) IIntakeController {
	return &intakeController{service: service}
}

func (c *intakeController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/intake/v1/sessions")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/advance", c.Advance)
	h.Post(":id/restart", c.Restart)
}

func (c *intakeController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *intakeController) Show(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), id)
	if err != nil {
		return intakeError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *intakeController) Advance(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.AdvanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Advance(ctx.UserContext(), id, &req)
	if err != nil {
		return intakeError(err)
	}

	message := "Step accepted"
	if len(res.Warnings) > 0 {
		message = "Step not accepted"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *intakeController) Restart(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Restart(ctx.UserContext(), id)
	if err != nil {
		return intakeError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session restarted", res))
}

func sessionID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if err := serverutils.ValidateVar("id", id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}

func intakeError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
