// Package memory provides mutex-guarded in-memory repository implementations.
// They back the behavioural test suites and local development without a
// Firestore project.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

type repoError struct {
	op       string
	notFound bool
	conflict bool
}

func (e *repoError) Error() string {
	switch {
	case e.notFound:
		return fmt.Sprintf("%s: not found", e.op)
	case e.conflict:
		return fmt.Sprintf("%s: conflict", e.op)
	default:
		return fmt.Sprintf("%s: failed", e.op)
	}
}

func (e *repoError) IsNotFound() bool    { return e.notFound }
func (e *repoError) IsConflict() bool    { return e.conflict }
func (e *repoError) IsUnavailable() bool { return false }

func notFound(op string) error { return &repoError{op: op, notFound: true} }

var _ repositories.RepositoryError = (*repoError)(nil)

// CartRepository keeps carts in a map keyed by user ID.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewCartRepository constructs an empty in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]domain.Cart)}
}

func (r *CartRepository) Get(_ context.Context, userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return domain.Cart{}, notFound("carts.get")
	}
	return cloneCart(cart), nil
}

func (r *CartRepository) Save(_ context.Context, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (r *CartRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func cloneCart(cart domain.Cart) domain.Cart {
	dup := cart
	dup.Items = make([]domain.CartItem, len(cart.Items))
	copy(dup.Items, cart.Items)
	return dup
}

// WishlistRepository keeps wishlist entries per user.
type WishlistRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]domain.WishlistEntry
}

// NewWishlistRepository constructs an empty in-memory wishlist repository.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{entries: make(map[string]map[string]domain.WishlistEntry)}
}

func (r *WishlistRepository) List(_ context.Context, userID string) ([]domain.WishlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.WishlistEntry, 0, len(r.entries[userID]))
	for _, entry := range r.entries[userID] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

func (r *WishlistRepository) Put(_ context.Context, userID string, productID string, addedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[userID] == nil {
		r.entries[userID] = make(map[string]domain.WishlistEntry)
	}
	if _, exists := r.entries[userID][productID]; exists {
		return false, nil
	}
	r.entries[userID][productID] = domain.WishlistEntry{ProductID: productID, AddedAt: addedAt}
	return true, nil
}

func (r *WishlistRepository) Delete(_ context.Context, userID string, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries[userID], productID)
	return nil
}

// OrderRepository keeps order documents in insertion order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewOrderRepository constructs an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

func (r *OrderRepository) Insert(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return &repoError{op: "orders.insert", conflict: true}
	}
	r.orders[order.ID] = order
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, notFound("orders.find")
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	return orders, nil
}

func (r *OrderRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, order := range r.orders {
		if order.UserID == userID {
			delete(r.orders, id)
		}
	}
	return nil
}

// BookingRepository keeps bookings in a map keyed by booking ID.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

// NewBookingRepository constructs an empty in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]domain.Booking)}
}

func (r *BookingRepository) Insert(_ context.Context, booking domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[booking.ID]; exists {
		return &repoError{op: "bookings.insert", conflict: true}
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, bookingID string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return domain.Booking{}, notFound("bookings.find")
	}
	return booking, nil
}

func (r *BookingRepository) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var bookings []domain.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *BookingRepository) ListByEvent(_ context.Context, eventID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var bookings []domain.Booking
	for _, booking := range r.bookings {
		if booking.EventID == eventID {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(_ context.Context, bookingID string, status domain.BookingStatus) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return domain.Booking{}, notFound("bookings.update")
	}
	booking.Status = status
	r.bookings[bookingID] = booking
	return booking, nil
}

// LoyaltyRepository keeps point balances keyed by user ID.
type LoyaltyRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.LoyaltyAccount
}

// NewLoyaltyRepository constructs an empty in-memory loyalty repository.
func NewLoyaltyRepository() *LoyaltyRepository {
	return &LoyaltyRepository{accounts: make(map[string]domain.LoyaltyAccount)}
}

func (r *LoyaltyRepository) Get(_ context.Context, userID string) (domain.LoyaltyAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[userID]
	if !ok {
		return domain.LoyaltyAccount{UserID: userID}, nil
	}
	return account, nil
}

func (r *LoyaltyRepository) Add(_ context.Context, userID string, points int64, now time.Time) (domain.LoyaltyAccount, error) {
	if points < 0 {
		return domain.LoyaltyAccount{}, fmt.Errorf("loyalty.add: points must not be negative")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[userID]
	account.UserID = userID
	account.Points += points
	account.UpdatedAt = now
	r.accounts[userID] = account
	return account, nil
}

// CounterRepository issues sequence numbers from an in-process map.
type CounterRepository struct {
	mu       sync.Mutex
	counters map[string]int64
	steps    map[string]int64
	maxima   map[string]int64
}

// NewCounterRepository constructs an empty in-memory counter repository.
func NewCounterRepository() *CounterRepository {
	return &CounterRepository{
		counters: make(map[string]int64),
		steps:    make(map[string]int64),
		maxima:   make(map[string]int64),
	}
}

func (r *CounterRepository) Next(_ context.Context, counterID string, step int64) (int64, error) {
	if counterID == "" {
		return 0, repositories.NewCounterError(repositories.CounterErrorInvalidInput, "counter id is required", nil)
	}
	if step < 0 {
		return 0, repositories.NewCounterError(repositories.CounterErrorInvalidInput, "step must be positive", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	increment := step
	if increment <= 0 {
		increment = r.steps[counterID]
	}
	if increment <= 0 {
		increment = 1
	}
	next := r.counters[counterID] + increment
	if max, bounded := r.maxima[counterID]; bounded && next > max {
		return 0, repositories.NewCounterError(repositories.CounterErrorExhausted,
			fmt.Sprintf("counter %s exceeded max value %d", counterID, max), nil)
	}
	r.counters[counterID] = next
	r.steps[counterID] = increment
	return next, nil
}

func (r *CounterRepository) Configure(_ context.Context, counterID string, cfg repositories.CounterConfig) error {
	if counterID == "" {
		return repositories.NewCounterError(repositories.CounterErrorInvalidInput, "counter id is required", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Step > 0 {
		r.steps[counterID] = cfg.Step
	}
	if cfg.MaxValue != nil {
		r.maxima[counterID] = *cfg.MaxValue
	}
	if cfg.InitialValue != nil {
		r.counters[counterID] = *cfg.InitialValue
	}
	return nil
}

var (
	_ repositories.CartRepository     = (*CartRepository)(nil)
	_ repositories.WishlistRepository = (*WishlistRepository)(nil)
	_ repositories.OrderRepository    = (*OrderRepository)(nil)
	_ repositories.BookingRepository  = (*BookingRepository)(nil)
	_ repositories.LoyaltyRepository  = (*LoyaltyRepository)(nil)
	_ repositories.CounterRepository  = (*CounterRepository)(nil)
)

// Registry bundles the in-memory repositories behind the
// repositories.Registry interface for tests and local development.
type Registry struct {
	carts     *CartRepository
	wishlists *WishlistRepository
	orders    *OrderRepository
	bookings  *BookingRepository
	loyalty   *LoyaltyRepository
	counters  *CounterRepository
	health    repositories.HealthRepository
}

// NewRegistry constructs a registry with fresh empty repositories.
func NewRegistry() *Registry {
	return &Registry{
		carts:     NewCartRepository(),
		wishlists: NewWishlistRepository(),
		orders:    NewOrderRepository(),
		bookings:  NewBookingRepository(),
		loyalty:   NewLoyaltyRepository(),
		counters:  NewCounterRepository(),
	}
}

// WithHealth attaches a health repository and returns the registry.
func (r *Registry) WithHealth(health repositories.HealthRepository) *Registry {
	r.health = health
	return r
}

func (r *Registry) Close(context.Context) error { return nil }

func (r *Registry) Carts() repositories.CartRepository         { return r.carts }
func (r *Registry) Wishlists() repositories.WishlistRepository { return r.wishlists }
func (r *Registry) Orders() repositories.OrderRepository       { return r.orders }
func (r *Registry) Bookings() repositories.BookingRepository   { return r.bookings }
func (r *Registry) Loyalty() repositories.LoyaltyRepository    { return r.loyalty }
func (r *Registry) Counters() repositories.CounterRepository   { return r.counters }
func (r *Registry) Health() repositories.HealthRepository      { return r.health }

var _ repositories.Registry = (*Registry)(nil)
