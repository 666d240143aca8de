package handlers

import (
	"net/http"
	"strconv"

	"dineflow/internal/common"
	"dineflow/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles HTTP requests for revenue and dashboard reports
type ReportHandlers struct {
	reportingService services.ReportingServiceInterface
}

// NewReportHandlers creates a new report handlers instance
func NewReportHandlers(reportingService services.ReportingServiceInterface) *ReportHandlers {
	return &ReportHandlers{
		reportingService: reportingService,
	}
}

// Revenue handles GET /reports/revenue?range=week|month|year
func (h *ReportHandlers) Revenue(c echo.Context) error {
	rng := c.QueryParam("range")
	if rng == "" {
		rng = services.RevenueRangeWeek
	}

	buckets, err := h.reportingService.Revenue(c.Request().Context(), rng)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, buckets)
}

// TopFoods handles GET /reports/top-foods?limit=N
func (h *ReportHandlers) TopFoods(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return common.SendClientError(c, "Invalid limit")
		}
		limit = parsed
	}

	foods, err := h.reportingService.TopFoods(c.Request().Context(), limit)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, foods)
}

// EmployeeSummary handles GET /reports/employees
func (h *ReportHandlers) EmployeeSummary(c echo.Context) error {
	stats, err := h.reportingService.EmployeeSummary(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /reports/dashboard
func (h *ReportHandlers) Dashboard(c echo.Context) error {
	summary, err := h.reportingService.DashboardSummary(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
