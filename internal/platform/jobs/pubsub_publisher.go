package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/weinberg-digital/storefront-api/internal/services"
)

// PubSubEventPublisher publishes commerce lifecycle events to Pub/Sub topics.
type PubSubEventPublisher struct {
	orders   *pubsub.Topic
	bookings *pubsub.Topic
	marshal  func(any) ([]byte, error)
}

// NewPubSubEventPublisher constructs a Pub/Sub backed commerce event publisher.
// The bookings topic may be nil when the bookings feature is disabled.
func NewPubSubEventPublisher(orders, bookings *pubsub.Topic) (*PubSubEventPublisher, error) {
	if orders == nil {
		return nil, errors.New("pubsub event publisher: orders topic is required")
	}
	return &PubSubEventPublisher{
		orders:   orders,
		bookings: bookings,
		marshal:  json.Marshal,
	}, nil
}

// PublishOrderPlaced enqueues an order placed message on the orders topic.
func (p *PubSubEventPublisher) PublishOrderPlaced(ctx context.Context, message services.OrderPlacedMessage) (string, error) {
	if p == nil || p.orders == nil {
		return "", errors.New("pubsub event publisher: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal order placed message: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "orderId", message.OrderID)
	setAttr(attrs, "orderNumber", message.OrderNumber)
	setAttr(attrs, "userId", message.UserID)

	result := p.orders.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish order placed: %w", err)
	}
	return id, nil
}

// PublishBookingCreated enqueues a booking created message on the bookings topic.
func (p *PubSubEventPublisher) PublishBookingCreated(ctx context.Context, message services.BookingCreatedMessage) (string, error) {
	if p == nil || p.bookings == nil {
		return "", errors.New("pubsub event publisher: bookings topic not configured")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal booking created message: %w", err)
	}

	attrs := make(map[string]string)
	setAttr(attrs, "bookingId", message.BookingID)
	setAttr(attrs, "eventId", message.EventID)
	setAttr(attrs, "userId", message.UserID)

	result := p.bookings.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish booking created: %w", err)
	}
	return id, nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
