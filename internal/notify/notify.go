// Package notify fans order lifecycle events out to administrative listeners.
// Delivery is at-most-once and best-effort: a listener that is not connected
// at publish time simply misses the event.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names as seen by dashboard clients.
const (
	EventNewOrder           = "newOrder"
	EventOrderStatusUpdated = "orderStatusUpdated"
)

// Event is a named payload published to listeners.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// NewOrderData is the payload of a newOrder event.
type NewOrderData struct {
	OrderID        uuid.UUID `json:"orderId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	AmountPaise    int64     `json:"amountPaise"`
	DeliveryStatus string    `json:"deliveryStatus"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrderStatusData is the payload of an orderStatusUpdated event.
type OrderStatusData struct {
	OrderID        uuid.UUID `json:"orderId"`
	DeliveryStatus string    `json:"deliveryStatus"`
}

// Broadcaster publishes events to whoever is listening. Implementations must
// not block the caller; failures are logged, never returned, because no
// delivery guarantee is offered.
type Broadcaster interface {
	Publish(ctx context.Context, event Event)
}

// Nop is a Broadcaster that discards everything.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(context.Context, Event) {}

// Multi fans a publish out to several broadcasters in order.
type Multi []Broadcaster

// Publish forwards the event to every member.
func (m Multi) Publish(ctx context.Context, event Event) {
	for _, b := range m {
		b.Publish(ctx, event)
	}
}
