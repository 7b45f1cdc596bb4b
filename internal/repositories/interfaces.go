package repositories

import (
	"context"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Carts() CartRepository
	Wishlists() WishlistRepository
	Orders() OrderRepository
	Bookings() BookingRepository
	Loyalty() LoyaltyRepository
	Counters() CounterRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// ProductFeed fetches the full product list from the upstream winery system.
// The catalog service snapshots the result in memory; the feed is never
// queried per request.
type ProductFeed interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

// CartRepository persists one cart document per user.
type CartRepository interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// WishlistRepository tracks saved products per user.
type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	// Put adds an entry and reports whether it was newly created. Existing
	// entries keep their original AddedAt.
	Put(ctx context.Context, userID string, productID string, addedAt time.Time) (bool, error)
	Delete(ctx context.Context, userID string, productID string) error
}

// OrderRepository persists order history documents.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// DeleteByUser wipes the user's order history, e.g. on account deletion.
	DeleteByUser(ctx context.Context, userID string) error
}

// BookingRepository persists event bookings.
type BookingRepository interface {
	Insert(ctx context.Context, booking domain.Booking) error
	FindByID(ctx context.Context, bookingID string) (domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (domain.Booking, error)
}

// LoyaltyRepository stores accumulated loyalty points per user.
type LoyaltyRepository interface {
	Get(ctx context.Context, userID string) (domain.LoyaltyAccount, error)
	// Add increments the balance atomically and returns the updated account.
	Add(ctx context.Context, userID string, points int64, now time.Time) (domain.LoyaltyAccount, error)
}

// CounterRepository provides transaction-safe sequence numbers.
type CounterRepository interface {
	Next(ctx context.Context, counterID string, step int64) (int64, error)
	Configure(ctx context.Context, counterID string, cfg CounterConfig) error
}

// CounterConfig customises increment behaviour and bounds for a counter.
type CounterConfig struct {
	Step         int64
	MaxValue     *int64
	InitialValue *int64
}

// HealthRepository exposes status of downstream dependencies for health checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
