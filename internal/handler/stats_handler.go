package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/service"
	"github.com/jengzang/crimestats-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for the raw aggregations
type StatsHandler struct {
	dashboardService *service.DashboardService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(dashboardService *service.DashboardService) *StatsHandler {
	return &StatsHandler{
		dashboardService: dashboardService,
	}
}

type statsQuery struct {
	start     time.Time
	end       time.Time
	districts []string
	limit     int
}

// bindStatsQuery parses start, end, district and limit. It writes the 400
// response itself and reports false on bad input.
func bindStatsQuery(c *gin.Context) (statsQuery, bool) {
	var filter models.StatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return statsQuery{}, false
	}

	start, err := parseStart(filter.Start)
	if err != nil {
		response.BadRequest(c, "Invalid start parameter", err)
		return statsQuery{}, false
	}
	end, err := parseEnd(filter.End)
	if err != nil {
		response.BadRequest(c, "Invalid end parameter", err)
		return statsQuery{}, false
	}

	return statsQuery{
		start:     start,
		end:       end,
		districts: queryDistricts(c),
		limit:     filter.Limit,
	}, true
}

// GetOffenses handles GET /api/v1/stats/offenses
func (h *StatsHandler) GetOffenses(c *gin.Context) {
	q, ok := bindStatsQuery(c)
	if !ok {
		return
	}

	counts, err := h.dashboardService.MonthlyOffenseCounts(c.Request.Context(), q.start, q.end, q.districts)
	if err != nil {
		fail(c, "Failed to count offenses", err)
		return
	}

	response.Success(c, counts)
}

// GetShootings handles GET /api/v1/stats/shootings
func (h *StatsHandler) GetShootings(c *gin.Context) {
	q, ok := bindStatsQuery(c)
	if !ok {
		return
	}

	counts, err := h.dashboardService.MonthlyShootingCounts(c.Request.Context(), q.start, q.end, q.districts)
	if err != nil {
		fail(c, "Failed to count shootings", err)
		return
	}

	response.Success(c, counts)
}

// GetOffenseGroups handles GET /api/v1/stats/offense-groups
func (h *StatsHandler) GetOffenseGroups(c *gin.Context) {
	q, ok := bindStatsQuery(c)
	if !ok {
		return
	}

	groups, err := h.dashboardService.TopOffenseGroups(c.Request.Context(), q.start, q.end, q.districts, q.limit)
	if err != nil {
		fail(c, "Failed to rank offense groups", err)
		return
	}

	response.Success(c, groups)
}

// GetHeatmap handles GET /api/v1/stats/heatmap
func (h *StatsHandler) GetHeatmap(c *gin.Context) {
	q, ok := bindStatsQuery(c)
	if !ok {
		return
	}

	heatmap, err := h.dashboardService.HourWeekdayHeatmap(c.Request.Context(), q.start, q.end, q.districts)
	if err != nil {
		fail(c, "Failed to build heatmap", err)
		return
	}

	response.Success(c, gin.H{
		"days":  models.Weekdays,
		"cells": heatmap.Rows(),
		"total": heatmap.Total(),
	})
}
