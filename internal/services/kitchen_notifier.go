package services

import (
	"context"
	"log"

	"dineflow/internal/messaging"
	"dineflow/internal/models"
)

// amqpKitchenNotifier publishes kitchen notifications over RabbitMQ.
type amqpKitchenNotifier struct {
	publisher *messaging.Publisher
}

// NewKitchenNotifier wraps a messaging publisher as a KitchenNotifier.
func NewKitchenNotifier(publisher *messaging.Publisher) KitchenNotifier {
	return &amqpKitchenNotifier{publisher: publisher}
}

func (n *amqpKitchenNotifier) NotifyOrderCreated(ctx context.Context, order *models.KitchenOrder) error {
	return n.publisher.PublishKitchenOrder(ctx, order)
}

// logKitchenNotifier stands in when the broker is unreachable at startup so
// order creation keeps working.
type logKitchenNotifier struct{}

// NewLogKitchenNotifier returns a notifier that only logs.
func NewLogKitchenNotifier() KitchenNotifier {
	return logKitchenNotifier{}
}

func (logKitchenNotifier) NotifyOrderCreated(_ context.Context, order *models.KitchenOrder) error {
	log.Printf("Kitchen notification (broker offline): order %s for table %d", order.OrderID, order.TableID)
	return nil
}
