package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

// ErrCatalogFetch indicates the upstream feed could not be loaded. The cached
// catalog, possibly empty, stays in place.
var ErrCatalogFetch = errors.New("catalog service: fetch failed")

var errCatalogFeedRequired = errors.New("catalog service: feed is required")

// CatalogSnapshot is a point-in-time view of the catalog cache.
type CatalogSnapshot struct {
	Products    []domain.Product
	Loading     bool
	Err         string
	LastFetched time.Time
}

// CatalogServiceDeps wires the feed and ambient dependencies.
type CatalogServiceDeps struct {
	Feed   repositories.ProductFeed
	Clock  func() time.Time
	Logger func(context.Context, string, map[string]any)
}

// CatalogService caches the full product list in memory. It is the only
// writer of the cache; carts, filtering and facet extraction read the
// snapshot and never block an in-flight refresh.
type CatalogService struct {
	feed   repositories.ProductFeed
	now    func() time.Time
	logger func(context.Context, string, map[string]any)

	mu          sync.RWMutex
	products    []domain.Product
	loading     bool
	fetchErr    string
	lastFetched time.Time
}

// NewCatalogService constructs a CatalogService with an empty cache.
func NewCatalogService(deps CatalogServiceDeps) (*CatalogService, error) {
	if deps.Feed == nil {
		return nil, errCatalogFeedRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &CatalogService{
		feed:   deps.Feed,
		now:    func() time.Time { return clock().UTC() },
		logger: logger,
	}, nil
}

// Refresh loads the catalog from the feed. With force false a warm cache
// makes it a no-op. A failed fetch leaves the cached list untouched and is
// recorded on the snapshot; concurrent refreshes race benignly, the last
// response wins.
func (s *CatalogService) Refresh(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !force && len(s.products) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	products, err := s.feed.FetchProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.fetchErr = err.Error()
		s.logger(ctx, "catalog.refresh_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: %v", ErrCatalogFetch, err)
	}
	s.products = products
	s.fetchErr = ""
	s.lastFetched = s.now()
	s.logger(ctx, "catalog.refreshed", map[string]any{"products": len(products)})
	return nil
}

// Snapshot returns a copy of the cache state.
func (s *CatalogService) Snapshot() CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CatalogSnapshot{
		Products:    s.copyProducts(),
		Loading:     s.loading,
		Err:         s.fetchErr,
		LastFetched: s.lastFetched,
	}
}

// Products returns a copy of the cached product list.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyProducts()
}

// WineByID resolves a wine by id or slug. A miss or an event under that
// identifier yields absence, not an error.
func (s *CatalogService) WineByID(id string) (domain.Wine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, product := range s.products {
		if product.Kind == domain.ProductKindWine && product.Matches(id) {
			return *product.Wine, true
		}
	}
	return domain.Wine{}, false
}

// EventByID resolves an event by id.
func (s *CatalogService) EventByID(id string) (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, product := range s.products {
		if product.Kind == domain.ProductKindEvent && product.Matches(id) {
			return *product.Event, true
		}
	}
	return domain.Event{}, false
}

// Events returns the event variants, optionally narrowed to one category.
func (s *CatalogService) Events(category string) []domain.Event {
	category = strings.TrimSpace(category)
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]domain.Event, 0)
	for _, product := range s.products {
		if product.Kind != domain.ProductKindEvent || product.Event == nil {
			continue
		}
		if category != "" && !strings.EqualFold(string(product.Event.Category), category) {
			continue
		}
		events = append(events, *product.Event)
	}
	return events
}

func (s *CatalogService) copyProducts() []domain.Product {
	products := make([]domain.Product, len(s.products))
	copy(products, s.products)
	return products
}
