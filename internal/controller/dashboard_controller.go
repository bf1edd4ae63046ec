// FILE: internal/controller/dashboard_controller.go
// Dashboard endpoints: KPI snapshot, growth timeline, cohorts, plan revenue
// and the alert history. All read-only and JWT-gated; the manual evaluation
// trigger is admin-only.
package controller

import (
	"time"

	"datacloud-analytics-be/internal/pkg/serverutils"
	"datacloud-analytics-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type dashboardController struct {
	metrics service.MetricsService
	alerts  service.AlertService
}

func NewDashboardController(metrics service.MetricsService, alerts service.AlertService) IDashboardController {
	return &dashboardController{
		metrics: metrics,
		alerts:  alerts,
	}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/dashboard", jwtMiddleware)
	h.Get("/overview", c.GetOverview)
	h.Get("/snapshot", c.GetSnapshot)
	h.Get("/timeline", c.GetTimeline)
	h.Get("/cohorts", c.GetCohorts)
	h.Get("/revenue-by-plan", c.GetRevenueByPlan)
	h.Get("/alerts", c.GetCurrentAlerts)
	h.Get("/alerts/log", c.GetAlertHistory)
	h.Post("/alerts/evaluate", serverutils.RequireRole("admin"), c.TriggerEvaluation)
}

// GetOverview returns the single payload the dashboard landing page loads:
// snapshot, growth, plan revenue and the current alert list.
func (c *dashboardController) GetOverview(ctx *fiber.Ctx) error {
	overview, err := c.metrics.GetOverview(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	alerts, err := c.alerts.EvaluateSnapshot(overview.Snapshot)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	overview.Alerts = alerts

	return ctx.JSON(serverutils.SuccessResponse("Overview retrieved", overview))
}

func (c *dashboardController) GetSnapshot(ctx *fiber.Ctx) error {
	var asOf time.Time
	if raw := ctx.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "as_of must be RFC3339 or YYYY-MM-DD"))
		}
		asOf = parsed
	}

	snapshot, err := c.metrics.GetSnapshot(ctx.Context(), asOf)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Snapshot retrieved", snapshot))
}

func (c *dashboardController) GetTimeline(ctx *fiber.Ctx) error {
	granularity := ctx.Query("granularity", "month")
	timeline, err := c.metrics.GetTimeline(ctx.Context(), granularity)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Timeline retrieved", timeline))
}

func (c *dashboardController) GetCohorts(ctx *fiber.Ctx) error {
	granularity := ctx.Query("granularity", "month")
	cohorts, err := c.metrics.GetCohorts(ctx.Context(), granularity)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cohorts retrieved", cohorts))
}

func (c *dashboardController) GetRevenueByPlan(ctx *fiber.Ctx) error {
	revenue, err := c.metrics.GetRevenueByPlan(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Revenue by plan retrieved", revenue))
}

// GetCurrentAlerts evaluates the current snapshot without side effects. The
// persisted log lives under /alerts/log.
func (c *dashboardController) GetCurrentAlerts(ctx *fiber.Ctx) error {
	snapshot, err := c.metrics.CurrentSnapshot(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	alerts, err := c.alerts.EvaluateSnapshot(snapshot)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Alerts evaluated", alerts))
}

func (c *dashboardController) GetAlertHistory(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	history, err := c.alerts.ListRecent(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Alert history retrieved", history))
}

// TriggerEvaluation runs a full evaluation cycle on demand, including
// persistence and notification fan-out.
func (c *dashboardController) TriggerEvaluation(ctx *fiber.Ctx) error {
	alerts, err := c.alerts.EvaluateCurrent(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Evaluation completed", alerts))
}
