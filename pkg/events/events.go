package events

import (
	"context"
	"time"

	"tripmarket/pkg/kafka"
	"tripmarket/pkg/logger"
)

// Domain event types published after successful commits. Consumers
// (notification delivery, reporting) live outside this module.
const (
	TypeBookingCreated        = "booking.created"
	TypeBookingCancelled      = "booking.cancelled"
	TypePurchaseCreated       = "purchase.created"
	TypePurchaseCancelled     = "purchase.cancelled"
	TypePurchaseStatusUpdated = "purchase.status_updated"

	TopicBookings  = "booking-events"
	TopicPurchases = "purchase-events"
)

type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	BookingType string    `json:"booking_type"`
	ItemID      string    `json:"item_id"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

type PurchaseEvent struct {
	PurchaseID string  `json:"purchase_id"`
	UserID     string  `json:"user_id"`
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

// Publisher emits domain events. Publishing is best-effort: failures are
// logged, never surfaced to the request that triggered them.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish domain event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when event publishing is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, string, any) {}
func (noopPublisher) Close() error                                 { return nil }
