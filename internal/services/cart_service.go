package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

var (
	errCartRepositoryRequired = errors.New("cart service: repository is required")
	errCartCatalogRequired    = errors.New("cart service: catalog is required")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartUnknownProduct indicates an add for a product id the catalog cannot resolve.
var ErrCartUnknownProduct = errors.New("cart service: unknown product")

// ErrCartUnavailable indicates the cart backend cannot fulfil the request.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// CartLine is a priced view of one cart item. UnitPrice is the effective
// price at read time; a line whose product left the catalog prices at 0.
type CartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
	Resolved  bool   `json:"resolved"`
}

// Cart is the priced cart view returned to handlers.
type Cart struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// wineResolver is the slice of the catalog service the cart needs.
type wineResolver interface {
	WineByID(id string) (domain.Wine, bool)
}

// CartServiceDeps wires the persistence and catalog dependencies.
type CartServiceDeps struct {
	Repository repositories.CartRepository
	Catalog    wineResolver
	Clock      func() time.Time
	Logger     func(context.Context, string, map[string]any)
}

// CartService owns per-user carts. Every mutation persists the full item
// list before returning, so a restart rebuilds an identical cart.
type CartService struct {
	repo    repositories.CartRepository
	catalog wineResolver
	now     func() time.Time
	logger  func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (*CartService, error) {
	if deps.Repository == nil {
		return nil, errCartRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errCartCatalogRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &CartService{
		repo:    deps.Repository,
		catalog: deps.Catalog,
		now:     func() time.Time { return clock().UTC() },
		logger:  logger,
	}, nil
}

// Get loads and prices the user's cart. An absent cart is an empty one.
func (s *CartService) Get(ctx context.Context, userID string) (Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	return s.price(cart), nil
}

// AddItem adds the quantity to an existing line or appends a new one. A
// non-positive quantity is a no-op, mirroring the storefront's lenient
// handling; an id the catalog cannot resolve is rejected.
func (s *CartService) AddItem(ctx context.Context, userID string, productID string, quantity int) (Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Cart{}, ErrCartInvalidInput
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if quantity <= 0 {
		return s.price(cart), nil
	}
	if _, ok := s.catalog.WineByID(productID); !ok {
		return Cart{}, ErrCartUnknownProduct
	}

	if idx := cart.Find(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Quantity: quantity})
	}
	return s.save(ctx, cart)
}

// RemoveItem drops the line. Removing an absent id changes nothing.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID string) (Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}

	idx := cart.Find(strings.TrimSpace(productID))
	if idx < 0 {
		return s.price(cart), nil
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return s.save(ctx, cart)
}

// SetQuantity sets the line quantity absolutely. Zero or less removes the
// line; an unknown id is a silent no-op, a deliberate carry-over of the
// storefront's absorb-and-ignore handling.
func (s *CartService) SetQuantity(ctx context.Context, userID string, productID string, quantity int) (Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return Cart{}, err
	}

	idx := cart.Find(strings.TrimSpace(productID))
	if idx < 0 {
		return s.price(cart), nil
	}
	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}
	return s.save(ctx, cart)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidInput
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return s.translateRepoError(err)
	}
	return nil
}

// Contains reports whether the cart holds a line for the product.
func (s *CartService) Contains(ctx context.Context, userID string, productID string) (bool, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return cart.Find(strings.TrimSpace(productID)) >= 0, nil
}

func (s *CartService) load(ctx context.Context, userID string) (domain.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Cart{}, ErrCartInvalidInput
	}

	cart, err := s.repo.Get(ctx, uid)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Cart{UserID: uid, Items: []domain.CartItem{}}, nil
		}
		return domain.Cart{}, s.translateRepoError(err)
	}
	cart.UserID = uid
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart domain.Cart) (Cart, error) {
	cart.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, cart); err != nil {
		return Cart{}, s.translateRepoError(err)
	}
	return s.price(cart), nil
}

// price resolves every line against the catalog with effective prices.
// Unresolvable ids stay visible but contribute 0 to the total.
func (s *CartService) price(cart domain.Cart) Cart {
	view := Cart{
		UserID:    cart.UserID,
		Lines:     make([]CartLine, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		line := CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if wine, ok := s.catalog.WineByID(item.ProductID); ok {
			line.Name = wine.Name
			line.UnitPrice = wine.EffectivePrice()
			line.LineTotal = line.UnitPrice * int64(item.Quantity)
			line.Resolved = true
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
		view.ItemCount += item.Quantity
	}
	return view
}

func (s *CartService) translateRepoError(err error) error {
	if isRepoUnavailable(err) {
		return ErrCartUnavailable
	}
	return err
}
