// FILE: internal/controller/billing_controller.go
package controller

import (
	"datacloud-analytics-be/internal/dto"
	"datacloud-analytics-be/internal/pkg/serverutils"
	"datacloud-analytics-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type billingController struct {
	service service.IBillingService
}

func NewBillingController(service service.IBillingService) IBillingController {
	return &billingController{service: service}
}

func (c *billingController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/billing")
	// The webhook is authenticated by signature, not by JWT: the gateway
	// calls it directly.
	h.Post("/webhook", c.HandleWebhook)
	h.Post("/checkout", jwtMiddleware, serverutils.RequireRole("admin"), c.Checkout)
}

func (c *billingController) HandleWebhook(ctx *fiber.Ctx) error {
	var req dto.BillingWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid payload"))
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		// A 4xx stops gateway retries; signature failures must not retry.
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification processed", nil))
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Checkout(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}
