package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/weinberg-digital/storefront-api/internal/services"
)

func newCartRouter(t *testing.T) (chi.Router, *services.CartService) {
	t.Helper()

	carts := fixtureCartService(t, fixtureCatalog(t))
	handlers := NewCartHandlers(nil, carts)
	r := chi.NewRouter()
	handlers.Routes(r)
	return r, carts
}

type cartBody struct {
	Cart struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
			UnitPrice int64  `json:"unitPrice"`
		} `json:"items"`
		Total     int64 `json:"total"`
		ItemCount int   `json:"itemCount"`
	} `json:"cart"`
}

func decodeCart(t *testing.T, rr *httptest.ResponseRecorder) cartBody {
	t.Helper()
	var body cartBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse cart response: %v", err)
	}
	return body
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	router, _ := newCartRouter(t)

	// Empty cart for a fresh user.
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if body := decodeCart(t, rr); len(body.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", body.Cart)
	}

	// Add two bottles of w1.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"productId":"w1","quantity":2}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 on add, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeCart(t, rr)
	if body.Cart.ItemCount != 2 || body.Cart.Total != 2380 {
		t.Fatalf("expected 2 items totalling 2380, got %+v", body.Cart)
	}

	// Absolute quantity update.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPatch, "/items/w1", strings.NewReader(`{"quantity":5}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 on patch, got %d", rr.Code)
	}
	if body = decodeCart(t, rr); body.Cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", body.Cart.Items)
	}

	// Remove the line.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodDelete, "/items/w1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 on remove, got %d", rr.Code)
	}
	if body = decodeCart(t, rr); len(body.Cart.Items) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", body.Cart)
	}
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	router, _ := newCartRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"productId":"w2"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := decodeCart(t, rr)
	if body.Cart.ItemCount != 1 {
		t.Fatalf("expected a single item, got %+v", body.Cart)
	}
	// Sale price applies.
	if body.Cart.Items[0].UnitPrice != 990 {
		t.Fatalf("expected sale unit price 990, got %+v", body.Cart.Items[0])
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	router, _ := newCartRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"productId":"nope"}`)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCartRejectsBadPayloads(t *testing.T) {
	router, _ := newCartRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for broken JSON, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"quantity":2}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing productId, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty body, got %d", rr.Code)
	}
}

func TestCartClear(t *testing.T) {
	router, _ := newCartRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"productId":"w1","quantity":1}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodDelete, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodGet, "/", nil))
	if body := decodeCart(t, rr); len(body.Cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", body.Cart)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	router, _ := newCartRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without identity, got %d", rr.Code)
	}
}
