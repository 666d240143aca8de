package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dineflow/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher publishes kitchen notifications. Delivery failures are the
// caller's to log; nothing here blocks past the context deadline.
type Publisher struct {
	conn *Connection
}

func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// PublishKitchenOrder pushes a new-order payload to the kitchen exchange.
func (p *Publisher) PublishKitchenOrder(ctx context.Context, order *models.KitchenOrder) error {
	routingKey := fmt.Sprintf("kitchen.%s", order.Priority)
	return p.publish(ctx, KitchenExchange, routingKey, order)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, message any) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.conn.Channel().PublishWithContext(publishCtx, exchange, routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}
