package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/auth"
	"github.com/weinberg-digital/storefront-api/internal/platform/httpx"
	"github.com/weinberg-digital/storefront-api/internal/platform/pagination"
	"github.com/weinberg-digital/storefront-api/internal/services"
)

// OrderHandlers exposes authenticated checkout and order history endpoints.
type OrderHandlers struct {
	authn  *auth.Authenticator
	orders *services.OrderService
}

// NewOrderHandlers constructs handlers enforcing Firebase authentication before invoking the order service.
func NewOrderHandlers(authn *auth.Authenticator, orders *services.OrderService) *OrderHandlers {
	return &OrderHandlers{
		authn:  authn,
		orders: orders,
	}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	r.Get("/", h.listOrders)
	r.Post("/", h.placeOrder)
	r.Delete("/", h.clearOrders)
	r.Get("/{orderId}", h.getOrder)
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	params, err := pagination.ParseParams(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_pagination", "invalid pagination parameters", http.StatusBadRequest))
		return
	}

	orders, err := h.orders.ListOrders(ctx, uid)
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	start, end := params.Window(len(orders))
	payload := orderListPayload{
		Items:         make([]orderPayload, 0, end-start),
		Total:         len(orders),
		NextPageToken: params.NextToken(len(orders)),
	}
	for _, order := range orders[start:end] {
		payload.Items = append(payload.Items, buildOrderPayload(order))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *OrderHandlers) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	order, err := h.orders.PlaceOrder(ctx, uid)
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, orderResponse{Order: buildOrderPayload(order)})
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	order, err := h.orders.GetOrder(ctx, uid, orderID)
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, orderResponse{Order: buildOrderPayload(order)})
}

func (h *OrderHandlers) clearOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	if err := h.orders.ClearOrders(ctx, uid); err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandlers) requireUser(ctx context.Context, w http.ResponseWriter) (string, bool) {
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return "", false
	}
	return identity.UID, true
}

func (h *OrderHandlers) writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput), errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderEmptyCart):
		httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "cart has no purchasable items", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
	case errors.Is(err, services.ErrOrderUnavailable), errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("order_error", "failed to process order request", http.StatusInternalServerError))
	}
}

type orderListPayload struct {
	Items         []orderPayload `json:"items"`
	Total         int            `json:"total"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

type orderResponse struct {
	Order orderPayload `json:"order"`
}

type orderPayload struct {
	ID       string             `json:"id"`
	Number   string             `json:"number"`
	Status   string             `json:"status"`
	Total    int64              `json:"total"`
	Items    []orderItemPayload `json:"items"`
	PlacedAt string             `json:"placedAt,omitempty"`
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func buildOrderPayload(order domain.Order) orderPayload {
	payload := orderPayload{
		ID:     order.ID,
		Number: order.Number,
		Status: string(order.Status),
		Total:  order.Total,
		Items:  make([]orderItemPayload, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if !order.PlacedAt.IsZero() {
		payload.PlacedAt = formatTime(order.PlacedAt)
	}
	return payload
}
