package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the owner KPIs
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetKPIs returns the month-to-date KPIs
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	kpis, err := h.dashboardService.GetKPIs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved", kpis)
}
