package handlers

import (
	"net/http"

	"dineflow/internal/common"
	"dineflow/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles HTTP requests for checkout and payment history
type PaymentHandlers struct {
	paymentService services.PaymentServiceInterface
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentServiceInterface) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
	}
}

// Checkout handles POST /payments/checkout
func (h *PaymentHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TableID       int    `json:"table_id"`
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Method        string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.TableID <= 0 {
		return common.SendValidationError(c, "table_id", "table_id must be positive")
	}

	receipt, err := h.paymentService.Checkout(ctx, &services.CheckoutRequest{
		TableID:       req.TableID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Method:        req.Method,
		OriginID:      origin(c),
	})
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

// GetReceipt handles GET /payments/:id and returns the consolidated receipt
// for one payment.
func (h *PaymentHandlers) GetReceipt(c echo.Context) error {
	paymentID, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	receipt, err := h.paymentService.GetReceipt(c.Request().Context(), paymentID)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

// ListPayments handles GET /payments with an optional phone filter. Each
// entry is a full receipt, newest first.
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	if phone := c.QueryParam("phone"); phone != "" {
		receipts, err := h.paymentService.ListReceiptsByPhone(ctx, phone)
		if err != nil {
			return sendServiceError(c, err)
		}
		return c.JSON(http.StatusOK, receipts)
	}

	receipts, err := h.paymentService.ListReceipts(ctx)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, receipts)
}
