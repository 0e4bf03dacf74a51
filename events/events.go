// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"time"

	"food-ordering-api/models"
)

const KeyOrderPlaced = "order.placed"

// StatusKey is the routing key for a transition into status
func StatusKey(status models.OrderStatus) string {
	return "order.status." + string(status)
}

// OrderEvent is the JSON body of every order message
type OrderEvent struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	Status      models.OrderStatus `json:"status"`
	FromStatus  models.OrderStatus `json:"fromStatus,omitempty"`
	TotalAmount float64            `json:"totalAmount"`
	ChangedBy   string             `json:"changedBy,omitempty"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, event OrderEvent) error
	Close() error
}

// Nop discards events; used when no broker is configured
type Nop struct{}

func (Nop) Publish(context.Context, string, OrderEvent) error { return nil }
func (Nop) Close() error                                      { return nil }
