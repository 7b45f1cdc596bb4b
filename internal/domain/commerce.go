package domain

import "time"

// CartItem is a single line item: a product reference and a quantity of at
// least one. The cart holds at most one item per product id.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart aggregates the persisted cart state for one shopper.
type Cart struct {
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

// Find returns the index of the item with the given product id, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemCount sums the quantities across all line items.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// OrderStatus enumerates the lifecycle states surfaced in the order history.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderItem snapshots a purchased line at the price the shopper paid.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

// Order is one entry in a shopper's order history. Total and unit prices are
// euro cents.
type Order struct {
	ID       string
	Number   string
	UserID   string
	Status   OrderStatus
	Total    int64
	Items    []OrderItem
	PlacedAt time.Time
}

// BookingStatus enumerates event booking states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking records a reservation of guest spots for a winery event. EventTitle,
// Date and Time are snapshotted at booking time so the history stays readable
// after the event leaves the catalog.
type Booking struct {
	ID          string
	UserID      string
	EventID     string
	EventTitle  string
	Date        string
	Time        string
	Guests      int
	TotalAmount int64
	Status      BookingStatus
	CreatedAt   time.Time
}

// WishlistEntry marks a product a shopper saved for later.
type WishlistEntry struct {
	ProductID string
	AddedAt   time.Time
}

// LoyaltyAccount holds the accumulated loyalty points for one shopper.
type LoyaltyAccount struct {
	UserID    string
	Points    int64
	UpdatedAt time.Time
}
