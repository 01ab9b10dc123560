package handler

import (
	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetMetrics returns today's sales figures compared with yesterday.
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	metrics, err := h.service.Metrics(c.UserContext(), a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(metrics)
}

// GetAlerts returns low and empty stock.
func (h *DashboardHandler) GetAlerts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	alerts, err := h.service.Alerts(c.UserContext(), a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(alerts)
}

// GetTopProducts returns best sellers.
// Query params: days (default 7)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	top, err := h.service.TopProducts(c.UserContext(), a, days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   top,
	})
}

// GetSalesReport
// Query params: range (7d, 1m, 3m, 6m, 12m)
func (h *DashboardHandler) GetSalesReport(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, err)
	}
	report, err := h.service.SalesReport(c.UserContext(), a, c.Query("range", "7d"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}
