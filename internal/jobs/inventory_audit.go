package jobs

import (
	"encoding/json"
	"fmt"

	"gudang/internal/metrics"
	"gudang/internal/services"
	"gudang/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Queue and binding used by the audit consumer.
const (
	InventoryAuditQueue   = "inventory_audit"
	InventoryAuditBinding = "inventory.*"
)

// InventoryAuditHandler writes every inventory event to the audit log.
func InventoryAuditHandler(log *zap.SugaredLogger) rabbitmq.Handler {
	return func(msg amqp.Delivery) error {
		var event services.InventoryEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to decode inventory event: %w", err)
		}
		if event.Event == "" {
			event.Event = msg.RoutingKey
		}
		metrics.RecordInventoryEvent(event.Event)
		log.Infow("inventory audit",
			"event", event.Event,
			"product_id", event.ProductID,
			"name", event.Name,
			"price", event.Price,
			"quantity", event.Quantity,
			"user_id", event.UserID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
