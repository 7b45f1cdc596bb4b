package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/weinberg-digital/storefront-api/internal/platform/httpx"
	"github.com/weinberg-digital/storefront-api/internal/services"
)

// InternalHandlers exposes operational endpoints; the DI layer guards the
// group with OIDC middleware so only scheduler invocations reach them.
type InternalHandlers struct {
	catalog *services.CatalogService
}

// NewInternalHandlers constructs the internal operational handlers.
func NewInternalHandlers(catalog *services.CatalogService) *InternalHandlers {
	return &InternalHandlers{catalog: catalog}
}

// Routes wires the /internal endpoints onto the provided router.
func (h *InternalHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/catalog/refresh", h.refreshCatalog)
}

func (h *InternalHandlers) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	force := false
	if raw := strings.TrimSpace(r.URL.Query().Get("force")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "force must be a boolean", http.StatusBadRequest))
			return
		}
		force = parsed
	}

	if err := h.catalog.Refresh(ctx, force); err != nil {
		if errors.Is(err, services.ErrCatalogFetch) {
			httpx.WriteError(ctx, w, httpx.NewError("catalog_fetch_failed", "failed to fetch product feed", http.StatusBadGateway))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("catalog_refresh_failed", "failed to refresh catalog", http.StatusInternalServerError))
		return
	}

	snapshot := h.catalog.Snapshot()
	payload := refreshPayload{
		Products: len(snapshot.Products),
		Forced:   force,
	}
	if !snapshot.LastFetched.IsZero() {
		payload.LastFetched = formatTime(snapshot.LastFetched)
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type refreshPayload struct {
	Products    int    `json:"products"`
	Forced      bool   `json:"forced"`
	LastFetched string `json:"lastFetched,omitempty"`
}
