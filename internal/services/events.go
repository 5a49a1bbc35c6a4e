package services

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Inventory events go to this exchange with one of the routing keys below.
const (
	InventoryExchange     = "inventory"
	InventoryCreatedEvent = "inventory.created"
	InventoryUpdatedEvent = "inventory.updated"
	InventoryDeletedEvent = "inventory.deleted"
)

// EventPublisher publishes a message body to an exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// InventoryEvent is the message body of every inventory event.
type InventoryEvent struct {
	Event      string    `json:"event"`
	ProductID  uint      `json:"productId"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	UserID     string    `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// publishEvent sends the event if a publisher is configured. Failures are
// logged and never fail the request that caused the event.
func publishEvent(publisher EventPublisher, log *zap.SugaredLogger, event InventoryEvent) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Warnw("failed to marshal inventory event", "event", event.Event, "error", err)
		return
	}
	if err := publisher.Publish(InventoryExchange, event.Event, body); err != nil {
		log.Warnw("failed to publish inventory event", "event", event.Event, "product_id", event.ProductID, "error", err)
		return
	}
	log.Debugw("published inventory event", "event", event.Event, "product_id", event.ProductID)
}
