package models

import (
	"time"

	"github.com/google/uuid"
)

// KitchenOrderItem is one line of a kitchen notification payload.
type KitchenOrderItem struct {
	FoodID   uuid.UUID `json:"food_id"`
	Quantity int       `json:"quantity"`
	Note     *string   `json:"note,omitempty"`
}

// KitchenOrder is the payload published to the kitchen when an order is
// created. Delivery is fire-and-forget; the kitchen keeps its own copy.
type KitchenOrder struct {
	OrderID   uuid.UUID          `json:"order_id"`
	TableID   int                `json:"table_id"`
	Items     []KitchenOrderItem `json:"items"`
	Status    string             `json:"status"`
	Priority  string             `json:"priority"`
	CreatedAt time.Time          `json:"created_at"`
}
