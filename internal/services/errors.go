package services

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP statuses; everything
// else surfaces as a server error.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("order is not open for modification")
	ErrNoActiveOrders    = errors.New("no active orders for table")
	ErrCheckoutFailed    = errors.New("checkout failed")
)
