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
	"github.com/weinberg-digital/storefront-api/internal/services"
)

// MeHandlers exposes authenticated per-user endpoints: wishlist and loyalty.
type MeHandlers struct {
	authn    *auth.Authenticator
	wishlist *services.WishlistService
	loyalty  *services.LoyaltyService
}

// NewMeHandlers constructs handlers enforcing Firebase authentication before invoking the user scoped services.
func NewMeHandlers(authn *auth.Authenticator, wishlist *services.WishlistService, loyalty *services.LoyaltyService) *MeHandlers {
	return &MeHandlers{
		authn:    authn,
		wishlist: wishlist,
		loyalty:  loyalty,
	}
}

// Routes wires the /me endpoints onto the provided router.
func (h *MeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	r.Get("/wishlist", h.listWishlist)
	r.Post("/wishlist/{productId}:toggle", h.toggleWishlist)
	r.Delete("/wishlist", h.clearWishlist)
	r.Get("/loyalty", h.getLoyalty)
}

func (h *MeHandlers) listWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if h.wishlist == nil {
		httpx.WriteError(ctx, w, httpx.NewError("wishlist_unavailable", "wishlist service is unavailable", http.StatusServiceUnavailable))
		return
	}

	entries, err := h.wishlist.List(ctx, uid)
	if err != nil {
		h.writeWishlistError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, wishlistResponse{Items: buildWishlistPayload(entries)})
}

func (h *MeHandlers) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if h.wishlist == nil {
		httpx.WriteError(ctx, w, httpx.NewError("wishlist_unavailable", "wishlist service is unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	saved, err := h.wishlist.Toggle(ctx, uid, productID)
	if err != nil {
		h.writeWishlistError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, wishlistTogglePayload{ProductID: productID, Saved: saved})
}

func (h *MeHandlers) clearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if h.wishlist == nil {
		httpx.WriteError(ctx, w, httpx.NewError("wishlist_unavailable", "wishlist service is unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.wishlist.Clear(ctx, uid); err != nil {
		h.writeWishlistError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeHandlers) getLoyalty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if h.loyalty == nil {
		httpx.WriteError(ctx, w, httpx.NewError("loyalty_unavailable", "loyalty service is unavailable", http.StatusServiceUnavailable))
		return
	}

	account, err := h.loyalty.Balance(ctx, uid)
	if err != nil {
		if errors.Is(err, services.ErrLoyaltyInvalidInput) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("loyalty_error", "failed to load loyalty balance", http.StatusInternalServerError))
		return
	}

	payload := loyaltyPayload{Points: account.Points}
	if !account.UpdatedAt.IsZero() {
		payload.UpdatedAt = formatTime(account.UpdatedAt)
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *MeHandlers) requireUser(ctx context.Context, w http.ResponseWriter) (string, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return "", false
	}
	return identity.UID, true
}

func (h *MeHandlers) writeWishlistError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, services.ErrWishlistInvalidInput) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("wishlist_error", "failed to process wishlist request", http.StatusInternalServerError))
}

type wishlistResponse struct {
	Items []wishlistEntryPayload `json:"items"`
}

type wishlistEntryPayload struct {
	ProductID string `json:"productId"`
	AddedAt   string `json:"addedAt,omitempty"`
}

type wishlistTogglePayload struct {
	ProductID string `json:"productId"`
	Saved     bool   `json:"saved"`
}

type loyaltyPayload struct {
	Points    int64  `json:"points"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func buildWishlistPayload(entries []domain.WishlistEntry) []wishlistEntryPayload {
	payload := make([]wishlistEntryPayload, 0, len(entries))
	for _, entry := range entries {
		item := wishlistEntryPayload{ProductID: entry.ProductID}
		if !entry.AddedAt.IsZero() {
			item.AddedAt = formatTime(entry.AddedAt)
		}
		payload = append(payload, item)
	}
	return payload
}
