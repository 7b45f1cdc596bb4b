package services

import (
	"context"
	"time"
)

// OrderPlacedMessage is the payload published when a shopper completes an
// order. Amounts are euro cents.
type OrderPlacedMessage struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	TotalAmount int64     `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	PlacedAt    time.Time `json:"placedAt"`
}

// BookingCreatedMessage is the payload published when an event booking is taken.
type BookingCreatedMessage struct {
	BookingID   string    `json:"bookingId"`
	EventID     string    `json:"eventId"`
	UserID      string    `json:"userId"`
	Guests      int       `json:"guests"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventPublisher forwards storefront events to downstream consumers (order
// fulfilment, mail). Publishing is best-effort from the service's point of
// view; failures are logged, never surfaced to the shopper.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) (string, error)
	PublishBookingCreated(ctx context.Context, msg BookingCreatedMessage) (string, error)
}
