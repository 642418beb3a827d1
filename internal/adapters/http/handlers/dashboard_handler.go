package handlers

import (
	"parkgate/internal/core/services"
	"parkgate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the operational dashboard summary
// @Summary Dashboard stats
// @Description Get active session counts per gate and settlement revenue (officer/admin)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard stats")
	}

	return response.Success(c, "Dashboard stats retrieved successfully", fiber.Map{
		"stats": stats,
	})
}
