package models

import (
	"github.com/google/uuid"
)

type OrderItem struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OrderID  uuid.UUID `json:"order_id" db:"order_id"`
	FoodID   uuid.UUID `json:"food_id" db:"food_id"`
	Quantity int       `json:"quantity" db:"quantity"`
	Note     *string   `json:"note" db:"note"`
	Served   bool      `json:"served" db:"served"`
}
