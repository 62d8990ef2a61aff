package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/storefront/backend/internal/application/report"
)

// DashboardHandler serves the admin overview
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get returns store counts, revenue, recent orders, sync backlog and best sellers
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.dashboardService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
