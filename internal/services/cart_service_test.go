package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories/memory"
)

// loadedCatalog builds a catalog service whose cache already holds the
// given products.
func loadedCatalog(t *testing.T, products []domain.Product) *CatalogService {
	t.Helper()
	catalog := newTestCatalog(t, &stubFeed{products: products})
	if err := catalog.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	return catalog
}

func newTestCartService(t *testing.T, catalog *CatalogService) (*CartService, *memory.CartRepository) {
	t.Helper()

	repo := memory.NewCartRepository()
	service, err := NewCartService(CartServiceDeps{
		Repository: repo,
		Catalog:    catalog,
		Clock:      func() time.Time { return time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewCartService returned error: %v", err)
	}
	return service, repo
}

func TestCartServiceAddAndPrice(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 2); err != nil {
		t.Fatalf("AddItem w1 returned error: %v", err)
	}
	cart, err := service.AddItem(ctx, "user-1", "w2", 1)
	if err != nil {
		t.Fatalf("AddItem w2 returned error: %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	// w1 at 1000 each, w2 on sale at 1500.
	if cart.Lines[0].LineTotal != 2000 {
		t.Fatalf("expected w1 line total 2000, got %d", cart.Lines[0].LineTotal)
	}
	if cart.Lines[1].UnitPrice != 1500 {
		t.Fatalf("expected sale price 1500 for w2, got %d", cart.Lines[1].UnitPrice)
	}
	if cart.Total != 3500 {
		t.Fatalf("expected total 3500, got %d", cart.Total)
	}
	if cart.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", cart.ItemCount)
	}
}

func TestCartServiceAddExistingIncrementsQuantity(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 1); err != nil {
		t.Fatalf("first AddItem returned error: %v", err)
	}
	cart, err := service.AddItem(ctx, "user-1", "w1", 3)
	if err != nil {
		t.Fatalf("second AddItem returned error: %v", err)
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", cart.Lines[0].Quantity)
	}
}

func TestCartServiceAddUnknownProduct(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)

	_, err := service.AddItem(context.Background(), "user-1", "no-such-wine", 1)
	if !errors.Is(err, ErrCartUnknownProduct) {
		t.Fatalf("expected ErrCartUnknownProduct, got %v", err)
	}
}

func TestCartServiceAddNonPositiveQuantityIsNoOp(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	cart, err := service.AddItem(ctx, "user-1", "w1", 0)
	if err != nil {
		t.Fatalf("AddItem with zero quantity returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}

	cart, err = service.AddItem(ctx, "user-1", "w1", -2)
	if err != nil {
		t.Fatalf("AddItem with negative quantity returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart after negative add, got %d lines", len(cart.Lines))
	}
}

func TestCartServiceSetQuantity(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	cart, err := service.SetQuantity(ctx, "user-1", "w1", 5)
	if err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Lines[0].Quantity)
	}

	// Zero removes the line.
	cart, err = service.SetQuantity(ctx, "user-1", "w1", 0)
	if err != nil {
		t.Fatalf("SetQuantity to zero returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected line removed, got %d lines", len(cart.Lines))
	}
}

func TestCartServiceSetQuantityUnknownIDIsNoOp(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	cart, err := service.SetQuantity(ctx, "user-1", "never-added", 7)
	if err != nil {
		t.Fatalf("SetQuantity for absent id returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != "w1" {
		t.Fatalf("expected cart unchanged, got %+v", cart.Lines)
	}
}

func TestCartServiceRemoveItemIdempotent(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	cart, err := service.RemoveItem(ctx, "user-1", "w1")
	if err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}

	cart, err = service.RemoveItem(ctx, "user-1", "w1")
	if err != nil {
		t.Fatalf("second RemoveItem returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected cart to stay empty, got %d lines", len(cart.Lines))
	}
}

func TestCartServiceClearAndAbsentCart(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	// Reading a cart that was never written yields an empty view.
	cart, err := service.Get(ctx, "fresh-user")
	if err != nil {
		t.Fatalf("Get for fresh user returned error: %v", err)
	}
	if len(cart.Lines) != 0 || cart.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	if _, err := service.AddItem(ctx, "user-1", "w1", 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := service.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	cart, err = service.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get after Clear returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected cleared cart, got %d lines", len(cart.Lines))
	}
}

func TestCartServiceSurvivesServiceRestart(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, repo := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := service.AddItem(ctx, "user-1", "w3", 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	// A new service over the same repository sees the identical cart.
	restarted, err := NewCartService(CartServiceDeps{Repository: repo, Catalog: catalog})
	if err != nil {
		t.Fatalf("NewCartService returned error: %v", err)
	}
	cart, err := restarted.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get after restart returned error: %v", err)
	}
	if len(cart.Lines) != 2 || cart.ItemCount != 3 {
		t.Fatalf("expected rebuilt cart with 2 lines / 3 items, got %+v", cart)
	}
	if cart.Total != 2650 {
		t.Fatalf("expected total 2650, got %d", cart.Total)
	}
}

func TestCartServiceUnresolvedLineStaysVisible(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, repo := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, "user-1", "w1", 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := service.AddItem(ctx, "user-1", "w2", 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	// The catalog loses w2; the stored cart still references it.
	shrunk := loadedCatalog(t, scenarioCatalog()[:1])
	reduced, err := NewCartService(CartServiceDeps{Repository: repo, Catalog: shrunk})
	if err != nil {
		t.Fatalf("NewCartService returned error: %v", err)
	}
	cart, err := reduced.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected both lines visible, got %d", len(cart.Lines))
	}
	var orphan *CartLine
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == "w2" {
			orphan = &cart.Lines[i]
		}
	}
	if orphan == nil {
		t.Fatalf("expected line for w2 to remain, got %+v", cart.Lines)
	}
	if orphan.Resolved || orphan.UnitPrice != 0 || orphan.LineTotal != 0 {
		t.Fatalf("expected unresolved zero-priced line, got %+v", *orphan)
	}
	if cart.Total != 1000 {
		t.Fatalf("expected total from resolved lines only, got %d", cart.Total)
	}
}

func TestCartServiceInvalidInput(t *testing.T) {
	catalog := loadedCatalog(t, scenarioCatalog())
	service, _ := newTestCartService(t, catalog)
	ctx := context.Background()

	if _, err := service.Get(ctx, "  "); !errors.Is(err, ErrCartInvalidInput) {
		t.Fatalf("expected ErrCartInvalidInput for blank user, got %v", err)
	}
	if _, err := service.AddItem(ctx, "user-1", "  ", 1); !errors.Is(err, ErrCartInvalidInput) {
		t.Fatalf("expected ErrCartInvalidInput for blank product id, got %v", err)
	}
	if err := service.Clear(ctx, ""); !errors.Is(err, ErrCartInvalidInput) {
		t.Fatalf("expected ErrCartInvalidInput for blank user on Clear, got %v", err)
	}
}
