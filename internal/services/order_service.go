package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

var (
	errOrderRepositoryRequired = errors.New("order service: repository is required")
	errOrderCartRequired       = errors.New("order service: cart service is required")
	errOrderCountersRequired   = errors.New("order service: counter repository is required")
)

// ErrOrderInvalidInput indicates the caller supplied invalid input.
var ErrOrderInvalidInput = errors.New("order service: invalid input")

// ErrOrderEmptyCart indicates a checkout attempt with no priceable items.
var ErrOrderEmptyCart = errors.New("order service: cart is empty")

// ErrOrderNotFound indicates the order does not exist or belongs to another user.
var ErrOrderNotFound = errors.New("order service: not found")

// ErrOrderUnavailable indicates the order backend cannot fulfil the request.
var ErrOrderUnavailable = errors.New("order service: unavailable")

// loyaltyAwarder is the slice of the loyalty service the checkout needs.
type loyaltyAwarder interface {
	Award(ctx context.Context, userID string, points int64) (domain.LoyaltyAccount, error)
}

// cartCheckout is the slice of the cart service the checkout needs.
type cartCheckout interface {
	Get(ctx context.Context, userID string) (Cart, error)
	Clear(ctx context.Context, userID string) error
}

// OrderServiceDeps wires checkout collaborators.
type OrderServiceDeps struct {
	Repository  repositories.OrderRepository
	Carts       cartCheckout
	Counters    repositories.CounterRepository
	Loyalty     loyaltyAwarder
	Publisher   EventPublisher
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

// OrderService turns carts into order history entries.
type OrderService struct {
	repo      repositories.OrderRepository
	carts     cartCheckout
	counters  repositories.CounterRepository
	loyalty   loyaltyAwarder
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
	logger    func(context.Context, string, map[string]any)
}

// NewOrderService constructs an OrderService enforcing dependency validation.
func NewOrderService(deps OrderServiceDeps) (*OrderService, error) {
	if deps.Repository == nil {
		return nil, errOrderRepositoryRequired
	}
	if deps.Carts == nil {
		return nil, errOrderCartRequired
	}
	if deps.Counters == nil {
		return nil, errOrderCountersRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &OrderService{
		repo:      deps.Repository,
		carts:     deps.Carts,
		counters:  deps.Counters,
		loyalty:   deps.Loyalty,
		publisher: deps.Publisher,
		now:       func() time.Time { return clock().UTC() },
		newID:     newID,
		logger:    logger,
	}, nil
}

// PlaceOrder snapshots the cart at effective prices, assigns a sequential
// order number, clears the cart, and fires the follow-up effects (order
// event, loyalty points). Cart lines whose product left the catalog are
// dropped from the order; they never priced into the total.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (domain.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Order{}, ErrOrderInvalidInput
	}

	cart, err := s.carts.Get(ctx, uid)
	if err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if !line.Resolved {
			s.logger(ctx, "order.line_skipped", map[string]any{
				"userId":    uid,
				"productId": line.ProductID,
			})
			continue
		}
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	if len(items) == 0 {
		return domain.Order{}, ErrOrderEmptyCart
	}

	now := s.now()
	number, err := s.nextOrderNumber(ctx, now)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:       s.newID(),
		Number:   number,
		UserID:   uid,
		Status:   domain.OrderStatusProcessing,
		Items:    items,
		PlacedAt: now,
	}
	for _, item := range items {
		order.Total += item.UnitPrice * int64(item.Quantity)
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		if isRepoUnavailable(err) {
			return domain.Order{}, ErrOrderUnavailable
		}
		return domain.Order{}, err
	}

	if err := s.carts.Clear(ctx, uid); err != nil {
		s.logger(ctx, "order.cart_clear_failed", map[string]any{
			"userId":  uid,
			"orderId": order.ID,
			"error":   err.Error(),
		})
	}
	s.publishPlaced(ctx, order)
	s.awardPoints(ctx, order)

	return order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrOrderInvalidInput
	}
	orders, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		if isRepoUnavailable(err) {
			return nil, ErrOrderUnavailable
		}
		return nil, err
	}
	return orders, nil
}

// GetOrder loads one order, enforcing ownership.
func (s *OrderService) GetOrder(ctx context.Context, userID string, orderID string) (domain.Order, error) {
	uid := strings.TrimSpace(userID)
	id := strings.TrimSpace(orderID)
	if uid == "" || id == "" {
		return domain.Order{}, ErrOrderInvalidInput
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Order{}, ErrOrderNotFound
		}
		if isRepoUnavailable(err) {
			return domain.Order{}, ErrOrderUnavailable
		}
		return domain.Order{}, err
	}
	if order.UserID != uid {
		return domain.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// ClearOrders wipes the user's order history.
func (s *OrderService) ClearOrders(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrOrderInvalidInput
	}
	if err := s.repo.DeleteByUser(ctx, uid); err != nil {
		if isRepoUnavailable(err) {
			return ErrOrderUnavailable
		}
		return err
	}
	return nil
}

// nextOrderNumber issues numbers like WB-2026-000042 from a per-year counter.
func (s *OrderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()
	seq, err := s.counters.Next(ctx, fmt.Sprintf("orders:%d", year), 1)
	if err != nil {
		return "", fmt.Errorf("order service: issue order number: %w", err)
	}
	return fmt.Sprintf("WB-%d-%06d", year, seq), nil
}

func (s *OrderService) publishPlaced(ctx context.Context, order domain.Order) {
	if s.publisher == nil {
		return
	}
	msg := OrderPlacedMessage{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		UserID:      order.UserID,
		TotalAmount: order.Total,
		ItemCount:   len(order.Items),
		PlacedAt:    order.PlacedAt,
	}
	if _, err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
		s.logger(ctx, "order.publish_failed", map[string]any{
			"orderId": order.ID,
			"error":   err.Error(),
		})
	}
}

// awardPoints credits one loyalty point per whole euro of the order total.
func (s *OrderService) awardPoints(ctx context.Context, order domain.Order) {
	if s.loyalty == nil {
		return
	}
	points := order.Total / 100
	if points <= 0 {
		return
	}
	if _, err := s.loyalty.Award(ctx, order.UserID, points); err != nil {
		s.logger(ctx, "order.loyalty_award_failed", map[string]any{
			"orderId": order.ID,
			"error":   err.Error(),
		})
	}
}
