// Package events publishes order lifecycle events to Kafka. Publishing is
// best-effort and asynchronous: the storefront never blocks a request on the
// broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/webstore/shopstock/internal/shop"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCancelled = "OrderCancelled"

	TopicOrderCreated   = "shop.order.created"
	TopicOrderCancelled = "shop.order.cancelled"
)

// Envelope wraps every published payload, versioned per event type.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID   string  `json:"order_id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	TotalCost float64 `json:"total_cost"`
}

type OrderCancelledPayload struct {
	OrderID   string `json:"order_id"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Emitter is what the order service publishes through.
type Emitter interface {
	OrderCreated(o *shop.Order)
	OrderCancelled(o *shop.Order)
}

// Nop satisfies Emitter when no broker is configured.
type Nop struct{}

func (Nop) OrderCreated(*shop.Order)   {}
func (Nop) OrderCancelled(*shop.Order) {}

// OrderEvents routes each event type to its topic producer.
type OrderEvents struct {
	Created   *Producer
	Cancelled *Producer
	Service   string
}

func (e *OrderEvents) OrderCreated(o *shop.Order) {
	e.publish(e.Created, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		TotalCost: o.TotalCost,
	})
}

func (e *OrderEvents) OrderCancelled(o *shop.Order) {
	e.publish(e.Cancelled, EventOrderCancelled, o.ID, OrderCancelledPayload{
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
	})
}

func (e *OrderEvents) publish(p *Producer, eventType, orderID string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Service,
		CorrelationID: orderID,
		Payload:       mustMarshal(payload),
	}
	// Partition key = order id so events for one order keep their order.
	p.Publish([]byte(orderID), mustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
