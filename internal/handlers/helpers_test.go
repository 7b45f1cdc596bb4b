package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/auth"
	"github.com/weinberg-digital/storefront-api/internal/repositories/memory"
	"github.com/weinberg-digital/storefront-api/internal/services"
)

type stubFeed struct {
	products []domain.Product
	err      error
}

func (f *stubFeed) FetchProducts(context.Context) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func fixtureProducts() []domain.Product {
	salePrice := int64(990)
	spots := 10
	return []domain.Product{
		domain.WineProduct(domain.Wine{
			ID:           "w1",
			Slug:         "trollinger",
			Name:         "2022 Trollinger trocken",
			Type:         domain.WineTypeRed,
			Price:        1190,
			GrapeVariety: "Trollinger",
			Flavor:       "trocken",
			Year:         2022,
		}),
		domain.WineProduct(domain.Wine{
			ID:           "w2",
			Slug:         "riesling",
			Name:         "2023 Riesling feinherb",
			Type:         domain.WineTypeWhite,
			Price:        1290,
			Sale:         true,
			SalePrice:    &salePrice,
			GrapeVariety: "Riesling",
			Flavor:       "feinherb",
			Year:         2023,
		}),
		domain.EventProduct(domain.Event{
			ID:       "ev1",
			Title:    "Weinprobe im Keller",
			Price:    4500,
			Date:     "2026-09-12",
			Time:     "18:00",
			Category: domain.EventCategoryWeinprobe,
			Spots:    &spots,
		}),
	}
}

func fixtureCatalog(t *testing.T) *services.CatalogService {
	t.Helper()

	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{
		Feed:  &stubFeed{products: fixtureProducts()},
		Clock: func() time.Time { return time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewCatalogService returned error: %v", err)
	}
	if err := catalog.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	return catalog
}

func fixtureCartService(t *testing.T, catalog *services.CatalogService) *services.CartService {
	t.Helper()

	carts, err := services.NewCartService(services.CartServiceDeps{
		Repository: memory.NewCartRepository(),
		Catalog:    catalog,
	})
	if err != nil {
		t.Fatalf("NewCartService returned error: %v", err)
	}
	return carts
}

func authedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	ctx := auth.WithIdentity(req.Context(), &auth.Identity{UID: "user-1"})
	return req.WithContext(ctx)
}
