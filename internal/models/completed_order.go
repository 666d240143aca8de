package models

import (
	"time"

	"github.com/google/uuid"
)

// CompletedOrder is the immutable post-payment record produced by the
// consolidation engine. One completed order absorbs every open order a table
// had at checkout time.
type CompletedOrder struct {
	ID            uuid.UUID `json:"id" db:"id"`
	EmployeeID    uuid.UUID `json:"employee_id" db:"employee_id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerPhone string    `json:"customer_phone" db:"customer_phone"`
	TableID       int       `json:"table_id" db:"table_id"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	CompletedAt   time.Time `json:"completed_at" db:"completed_at"`
}

// CompletedOrderMapping links a completed order back to one of the original
// orders it absorbed.
type CompletedOrderMapping struct {
	CompletedID     uuid.UUID `json:"completed_id" db:"completed_id"`
	OriginalOrderID uuid.UUID `json:"original_order_id" db:"original_order_id"`
}

// CompletedOrderItem is an order item copied verbatim at consolidation time.
// OriginalOrderID keeps the per-order grouping so receipts can reconstruct
// each absorbed order's item list.
type CompletedOrderItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CompletedID     uuid.UUID `json:"completed_id" db:"completed_id"`
	OriginalOrderID uuid.UUID `json:"original_order_id" db:"original_order_id"`
	FoodID          uuid.UUID `json:"food_id" db:"food_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	Note            *string   `json:"note" db:"note"`
}
