package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/service"
	"github.com/jengzang/crimestats-backend-go/pkg/response"
)

// DashboardHandler handles HTTP requests for the dashboard panels
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetMonths handles GET /api/v1/months
func (h *DashboardHandler) GetMonths(c *gin.Context) {
	domain, err := h.dashboardService.Domain(c.Request.Context())
	if err != nil {
		fail(c, "Failed to list months", err)
		return
	}

	response.Success(c, gin.H{
		"months": domain.Months,
		"count":  len(domain.Months),
	})
}

// GetDistricts handles GET /api/v1/districts
func (h *DashboardHandler) GetDistricts(c *gin.Context) {
	domain, err := h.dashboardService.Domain(c.Request.Context())
	if err != nil {
		fail(c, "Failed to list districts", err)
		return
	}

	response.Success(c, gin.H{
		"districts": domain.Districts,
		"count":     len(domain.Districts),
	})
}

// GetDomain handles GET /api/v1/dashboard/domain
func (h *DashboardHandler) GetDomain(c *gin.Context) {
	domain, err := h.dashboardService.Domain(c.Request.Context())
	if err != nil {
		fail(c, "Failed to load dashboard domain", err)
		return
	}

	response.Success(c, domain)
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var filter models.DashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	filter.Districts = queryDistricts(c)

	dashboard, err := h.dashboardService.Build(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to build dashboard", err)
		return
	}

	response.Success(c, dashboard)
}

// PostRange handles POST /api/v1/dashboard/range
func (h *DashboardHandler) PostRange(c *gin.Context) {
	var req models.RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid range request", err)
		return
	}

	rng, err := h.dashboardService.RangeFromInteraction(c.Request.Context(), req)
	if err != nil {
		fail(c, "Failed to derive range", err)
		return
	}

	response.Success(c, rng)
}
