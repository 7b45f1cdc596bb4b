package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/weinberg-digital/storefront-api/internal/platform/i18n"
	"github.com/weinberg-digital/storefront-api/internal/platform/requestctx"
)

func newPublicRouter(t *testing.T) chi.Router {
	t.Helper()

	labels, err := i18n.NewCatalog("de", []string{"de", "en"})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	handlers := NewPublicHandlers(fixtureCatalog(t), labels)
	r := chi.NewRouter()
	handlers.Routes(r)
	return r
}

func TestListProductsFiltersAndFacets(t *testing.T) {
	router := newPublicRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/products?category=rot", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		Items []struct {
			ID             string `json:"id"`
			EffectivePrice int64  `json:"effectivePrice"`
		} `json:"items"`
		Facets struct {
			Grapes []string `json:"grapes"`
		} `json:"facets"`
		ActiveFilters []struct {
			Key          string `json:"key"`
			Label        string `json:"label"`
			DisplayValue string `json:"displayValue"`
		} `json:"activeFilters"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if body.Total != 1 || len(body.Items) != 1 || body.Items[0].ID != "w1" {
		t.Fatalf("expected only the red wine, got %+v", body.Items)
	}
	// The facet base ignores nothing here: category narrows grapes too.
	if len(body.Facets.Grapes) != 1 || body.Facets.Grapes[0] != "Trollinger" {
		t.Fatalf("expected grape facet narrowed to Trollinger, got %v", body.Facets.Grapes)
	}
	if len(body.ActiveFilters) != 1 || body.ActiveFilters[0].Key != "category" {
		t.Fatalf("expected one category chip, got %+v", body.ActiveFilters)
	}
	// Default locale is German.
	if body.ActiveFilters[0].Label != "Kategorie" || body.ActiveFilters[0].DisplayValue != "Rotwein" {
		t.Fatalf("expected German chip labels, got %+v", body.ActiveFilters[0])
	}
}

func TestListProductsLocalizedChips(t *testing.T) {
	labels, err := i18n.NewCatalog("de", []string{"de", "en"})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	handlers := NewPublicHandlers(fixtureCatalog(t), labels)
	r := chi.NewRouter()
	r.Use(labels.Middleware())
	handlers.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/products?category=weiss", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body struct {
		ActiveFilters []struct {
			Label        string `json:"label"`
			DisplayValue string `json:"displayValue"`
		} `json:"activeFilters"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.ActiveFilters) != 1 {
		t.Fatalf("expected one chip, got %+v", body.ActiveFilters)
	}
	if body.ActiveFilters[0].Label != "Category" || body.ActiveFilters[0].DisplayValue != "White wine" {
		t.Fatalf("expected English chip labels, got %+v", body.ActiveFilters[0])
	}
}

func TestListProductsSaleUsesEffectivePrice(t *testing.T) {
	router := newPublicRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/products?sort=price_asc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var body struct {
		Items []struct {
			ID             string `json:"id"`
			Price          int64  `json:"price"`
			SalePrice      *int64 `json:"salePrice"`
			EffectivePrice int64  `json:"effectivePrice"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 wines, got %d", len(body.Items))
	}
	var sale *struct {
		ID             string `json:"id"`
		Price          int64  `json:"price"`
		SalePrice      *int64 `json:"salePrice"`
		EffectivePrice int64  `json:"effectivePrice"`
	}
	for i := range body.Items {
		if body.Items[i].ID == "w2" {
			sale = &body.Items[i]
		}
	}
	if sale == nil {
		t.Fatalf("expected w2 in response, got %+v", body.Items)
	}
	if sale.SalePrice == nil || *sale.SalePrice != 990 || sale.EffectivePrice != 990 {
		t.Fatalf("expected sale price 990, got %+v", sale)
	}
}

func TestGetProductBySlugAndMiss(t *testing.T) {
	router := newPublicRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/products/riesling", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for slug lookup, got %d", rr.Code)
	}
	var body struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Product.ID != "w2" {
		t.Fatalf("expected w2, got %q", body.Product.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/products/no-such-wine", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	// Event ids are not products.
	req = httptest.NewRequest(http.MethodGet, "/products/ev1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for event id, got %d", rr.Code)
	}
}

func TestListAndGetEvents(t *testing.T) {
	router := newPublicRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/events?category=weinprobe", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var list struct {
		Items []struct {
			ID    string `json:"id"`
			Spots *int   `json:"spots"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != "ev1" {
		t.Fatalf("expected ev1 only, got %+v", list)
	}
	if list.Items[0].Spots == nil || *list.Items[0].Spots != 10 {
		t.Fatalf("expected 10 spots, got %v", list.Items[0].Spots)
	}

	req = httptest.NewRequest(http.MethodGet, "/events/ev1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/events/missing", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestListProductsUsesContextLocale(t *testing.T) {
	labels, err := i18n.NewCatalog("de", []string{"de", "en"})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	handlers := NewPublicHandlers(fixtureCatalog(t), labels)
	r := chi.NewRouter()
	handlers.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/products?flavor=trocken", nil)
	req = req.WithContext(requestctx.WithLocale(req.Context(), "en"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var body struct {
		ActiveFilters []struct {
			DisplayValue string `json:"displayValue"`
		} `json:"activeFilters"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.ActiveFilters) != 1 || body.ActiveFilters[0].DisplayValue != "Dry" {
		t.Fatalf("expected English flavor chip, got %+v", body.ActiveFilters)
	}
}
