package firestore

import (
	"context"
	"errors"

	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

// Registry bundles the Firestore-backed repositories behind the
// repositories.Registry interface.
type Registry struct {
	provider  *pfirestore.Provider
	carts     *CartRepository
	wishlists *WishlistRepository
	orders    *OrderRepository
	bookings  *BookingRepository
	loyalty   *LoyaltyRepository
	counters  *CounterRepository
	health    repositories.HealthRepository
}

// NewRegistry wires every Firestore repository against the shared provider.
// The health repository is injected because its probe set is assembled at
// composition time from more than Firestore alone.
func NewRegistry(provider *pfirestore.Provider, health repositories.HealthRepository) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("registry requires firestore provider")
	}
	if health == nil {
		return nil, errors.New("registry requires health repository")
	}

	carts, err := NewCartRepository(provider)
	if err != nil {
		return nil, err
	}
	wishlists, err := NewWishlistRepository(provider)
	if err != nil {
		return nil, err
	}
	orders, err := NewOrderRepository(provider)
	if err != nil {
		return nil, err
	}
	bookings, err := NewBookingRepository(provider)
	if err != nil {
		return nil, err
	}
	loyalty, err := NewLoyaltyRepository(provider)
	if err != nil {
		return nil, err
	}
	counters, err := NewCounterRepository(provider)
	if err != nil {
		return nil, err
	}

	return &Registry{
		provider:  provider,
		carts:     carts,
		wishlists: wishlists,
		orders:    orders,
		bookings:  bookings,
		loyalty:   loyalty,
		counters:  counters,
		health:    health,
	}, nil
}

// Close releases the underlying Firestore client.
func (r *Registry) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close(ctx)
}

func (r *Registry) Carts() repositories.CartRepository         { return r.carts }
func (r *Registry) Wishlists() repositories.WishlistRepository { return r.wishlists }
func (r *Registry) Orders() repositories.OrderRepository       { return r.orders }
func (r *Registry) Bookings() repositories.BookingRepository   { return r.bookings }
func (r *Registry) Loyalty() repositories.LoyaltyRepository    { return r.loyalty }
func (r *Registry) Counters() repositories.CounterRepository   { return r.counters }
func (r *Registry) Health() repositories.HealthRepository      { return r.health }

var _ repositories.Registry = (*Registry)(nil)
