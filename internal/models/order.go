package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderPending      = "pending"
	OrderPreparing    = "preparing"
	OrderReadyToServe = "ready_to_serve"
	OrderCompleted    = "completed"
	OrderCancelled    = "cancelled"
	OrderPaid         = "paid"
)

// orderTransitions is the status state machine. Payment consolidation is the
// only path into "paid"; it bypasses this table on purpose.
var orderTransitions = map[string][]string{
	OrderPending:      {OrderPreparing, OrderCancelled},
	OrderPreparing:    {OrderReadyToServe, OrderCancelled},
	OrderReadyToServe: {OrderCompleted, OrderCancelled},
	OrderCompleted:    {},
	OrderCancelled:    {},
	OrderPaid:         {},
}

// CanTransition reports whether an order may move from one status to another
// through the regular update path.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsOpenOrderStatus reports whether items of an order in this status may
// still be mutated.
func IsOpenOrderStatus(s string) bool {
	return s == OrderPending || s == OrderPreparing || s == OrderReadyToServe
}

// IsActiveOrderStatus reports whether an order in this status still counts
// toward table occupancy and is eligible for checkout.
func IsActiveOrderStatus(s string) bool {
	return IsOpenOrderStatus(s) || s == OrderCompleted
}

type Order struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	EmployeeID    uuid.UUID    `json:"employee_id" db:"employee_id"`
	TableID       int          `json:"table_id" db:"table_id"`
	CustomerName  *string      `json:"customer_name" db:"customer_name"`
	CustomerPhone *string      `json:"customer_phone" db:"customer_phone"`
	Status        string       `json:"status" db:"status"`
	TotalPrice    float64      `json:"total_price" db:"total_price"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
	Items         []*OrderItem `json:"items,omitempty" db:"-"`
}
