package services

import (
	"context"

	"dineflow/internal/models"
)

// Broadcaster pushes domain events to connected clients. Services emit only
// after a successful commit, never before.
type Broadcaster interface {
	Broadcast(eventType string, payload any, originID string)
}

// KitchenNotifier delivers new-order payloads to the kitchen. Failures must
// never roll back the order that triggered them.
type KitchenNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.KitchenOrder) error
}
