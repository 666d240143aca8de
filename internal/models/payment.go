package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodEWallet = "e-wallet"

	PaymentCompleted = "completed"
)

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard || m == PaymentMethodEWallet
}

// Payment is created atomically with its CompletedOrder during checkout.
type Payment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CompletedID uuid.UUID `json:"completed_id" db:"completed_id"`
	AmountPaid  float64   `json:"amount_paid" db:"amount_paid"`
	Method      string    `json:"method" db:"method"`
	Status      string    `json:"status" db:"status"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
}

// ReceiptOrder is the reconstructed view of one original order inside a
// consolidated receipt. Subtotal is the even split of the consolidated total
// across the merged orders, a display-only approximation.
type ReceiptOrder struct {
	OrderID  uuid.UUID             `json:"order_id"`
	Subtotal float64               `json:"subtotal"`
	Items    []*CompletedOrderItem `json:"items"`
}

// Receipt is the consolidated payment record rendered for display.
type Receipt struct {
	PaymentID     uuid.UUID      `json:"payment_id"`
	CompletedID   uuid.UUID      `json:"completed_id"`
	EmployeeID    uuid.UUID      `json:"employee_id"`
	TableID       int            `json:"table_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	TotalPrice    float64        `json:"total_price"`
	AmountPaid    float64        `json:"amount_paid"`
	Method        string         `json:"method"`
	PaymentDate   time.Time      `json:"payment_date"`
	CompletedAt   time.Time      `json:"completed_at"`
	Orders        []ReceiptOrder `json:"orders"`
}
