package handlers

import (
	"net/http"
	"strconv"

	"dineflow/internal/common"
	"dineflow/internal/models"
	"dineflow/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
	}
}

type orderItemRequest struct {
	FoodID   string  `json:"food_id"`
	Quantity int     `json:"quantity"`
	Note     *string `json:"note"`
}

func (r *orderItemRequest) toModel() (*models.OrderItem, error) {
	foodID, err := common.ValidateUUID(r.FoodID, "food_id")
	if err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveInteger(r.Quantity, "quantity", 100); err != nil {
		return nil, err
	}
	return &models.OrderItem{
		FoodID:   foodID,
		Quantity: r.Quantity,
		Note:     r.Note,
	}, nil
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	employeeID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		TableID int                `json:"table_id"`
		Items   []orderItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.TableID <= 0 {
		return common.SendValidationError(c, "table_id", "table_id must be positive")
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "order must contain at least one item")
	}

	items := make([]*models.OrderItem, 0, len(req.Items))
	for _, ir := range req.Items {
		item, err := ir.toModel()
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		items = append(items, item)
	}

	order := &models.Order{
		EmployeeID: employeeID,
		TableID:    req.TableID,
		Items:      items,
	}

	created, err := h.orderService.Create(ctx, order, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders with an optional table_id filter
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	if tableParam := c.QueryParam("table_id"); tableParam != "" {
		tableID, err := strconv.Atoi(tableParam)
		if err != nil || tableID <= 0 {
			return common.SendClientError(c, "Invalid table_id")
		}
		orders, err := h.orderService.ListByTable(ctx, tableID)
		if err != nil {
			return sendServiceError(c, err)
		}
		return c.JSON(http.StatusOK, orders)
	}

	orders, err := h.orderService.ListActive(ctx)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PUT /orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, req.Status, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// AddOrderItem handles POST /orders/:id/items
func (h *OrderHandlers) AddOrderItem(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req orderItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item, err := req.toModel()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.AddItem(c.Request().Context(), orderID, item, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderItem handles PUT /orders/:id/items/:item_id
func (h *OrderHandlers) UpdateOrderItem(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	itemID, err := common.ValidateUUID(c.Param("item_id"), "item id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req orderItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item, err := req.toModel()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.UpdateItem(c.Request().Context(), orderID, itemID, item, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrderItem handles DELETE /orders/:id/items/:item_id
func (h *OrderHandlers) DeleteOrderItem(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	itemID, err := common.ValidateUUID(c.Param("item_id"), "item id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.DeleteItem(c.Request().Context(), orderID, itemID, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ServeOrderItems handles POST /orders/:id/items/serve
func (h *OrderHandlers) ServeOrderItems(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := common.ValidateUUID(raw, "item id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		itemIDs = append(itemIDs, id)
	}

	order, err := h.orderService.MarkItemsServed(c.Request().Context(), orderID, itemIDs, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
