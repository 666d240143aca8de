package handlers

import (
	"net/http"
	"strconv"

	"dineflow/internal/common"
	"dineflow/internal/services"

	"github.com/labstack/echo/v4"
)

// TableHandlers handles HTTP requests for the table registry
type TableHandlers struct {
	tableService services.TableServiceInterface
}

// NewTableHandlers creates a new table handlers instance
func NewTableHandlers(tableService services.TableServiceInterface) *TableHandlers {
	return &TableHandlers{
		tableService: tableService,
	}
}

func parseTableID(c echo.Context) (int, error) {
	tableID, err := strconv.Atoi(c.Param("id"))
	if err != nil || tableID <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid table id")
	}
	return tableID, nil
}

// ListTables handles GET /tables
func (h *TableHandlers) ListTables(c echo.Context) error {
	tables, err := h.tableService.List(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// GetTable handles GET /tables/:id
func (h *TableHandlers) GetTable(c echo.Context) error {
	tableID, err := parseTableID(c)
	if err != nil {
		return common.SendClientError(c, "Invalid table id")
	}

	table, err := h.tableService.Get(c.Request().Context(), tableID)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// UpdateTableStatus handles PUT /tables/:id/status
func (h *TableHandlers) UpdateTableStatus(c echo.Context) error {
	tableID, err := parseTableID(c)
	if err != nil {
		return common.SendClientError(c, "Invalid table id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	table, err := h.tableService.SetStatus(c.Request().Context(), tableID, req.Status, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// InitializeTables handles POST /tables/initialize
func (h *TableHandlers) InitializeTables(c echo.Context) error {
	var req struct {
		Count int `json:"count"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidatePositiveInteger(req.Count, "count", 100); err != nil {
		return common.SendValidationError(c, "count", err.Error())
	}

	tables, err := h.tableService.Initialize(c.Request().Context(), req.Count)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, tables)
}
