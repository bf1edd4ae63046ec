// FILE: internal/controller/export_controller.go
package controller

import (
	"fmt"

	"datacloud-analytics-be/internal/pkg/serverutils"
	"datacloud-analytics-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type exportController struct {
	service service.IExportService
}

func NewExportController(service service.IExportService) IExportController {
	return &exportController{service: service}
}

func (c *exportController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/export", jwtMiddleware)
	h.Get("/csv", c.DownloadCSV)
	h.Get("/excel", c.DownloadExcel)
}

func (c *exportController) DownloadCSV(ctx *fiber.Ctx) error {
	result, err := c.service.GenerateCSV(ctx.Context(), c.filterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return c.sendFile(ctx, result)
}

func (c *exportController) DownloadExcel(ctx *fiber.Ctx) error {
	result, err := c.service.GenerateExcel(ctx.Context(), c.filterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return c.sendFile(ctx, result)
}

func (c *exportController) filterFromQuery(ctx *fiber.Ctx) service.ExportFilter {
	return service.ExportFilter{
		Status:   ctx.Query("status"),
		PlanSlug: ctx.Query("plan"),
	}
}

func (c *exportController) sendFile(ctx *fiber.Ctx, result *service.ExportResult) error {
	ctx.Set(fiber.HeaderContentType, result.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, result.Filename))
	return ctx.Send(result.Data.Bytes())
}
