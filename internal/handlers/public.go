package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/platform/httpx"
	"github.com/weinberg-digital/storefront-api/internal/platform/requestctx"
	"github.com/weinberg-digital/storefront-api/internal/services"
)

// PublicHandlers exposes the unauthenticated catalog browsing endpoints.
type PublicHandlers struct {
	catalog *services.CatalogService
	labels  services.Labeler
}

// NewPublicHandlers constructs the public catalog handlers.
func NewPublicHandlers(catalog *services.CatalogService, labels services.Labeler) *PublicHandlers {
	return &PublicHandlers{
		catalog: catalog,
		labels:  labels,
	}
}

// Routes wires the /public endpoints onto the provided router.
func (h *PublicHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/products/{productId}", h.getProduct)
	r.Get("/events", h.listEvents)
	r.Get("/events/{eventId}", h.getEvent)
}

func (h *PublicHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	state := domain.ParseFilterState(r.URL.Query())
	locale := requestctx.Locale(ctx)

	products := h.catalog.Products()
	wines := services.FilterWines(products, state)
	facets := services.ExtractFacets(products, state)

	payload := productListPayload{
		Items:  buildWinePayloads(wines),
		Facets: facets,
		Total:  len(wines),
	}
	if h.labels != nil {
		payload.ActiveFilters = buildActiveFilterPayloads(services.BuildActiveFilters(state, h.labels, locale))
	}

	setCatalogCacheHeaders(w)
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *PublicHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "productId"))
	wine, ok := h.catalog.WineByID(id)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
		return
	}

	setCatalogCacheHeaders(w)
	writeJSONResponse(w, http.StatusOK, wineResponse{Product: buildWinePayload(wine)})
}

func (h *PublicHandlers) listEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	events := h.catalog.Events(category)

	payload := eventListPayload{
		Items: make([]eventPayload, 0, len(events)),
		Total: len(events),
	}
	for _, event := range events {
		payload.Items = append(payload.Items, buildEventPayload(event))
	}

	setCatalogCacheHeaders(w)
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *PublicHandlers) getEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "eventId"))
	event, ok := h.catalog.EventByID(id)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("event_not_found", "event not found", http.StatusNotFound))
		return
	}

	setCatalogCacheHeaders(w)
	writeJSONResponse(w, http.StatusOK, eventResponse{Event: buildEventPayload(event)})
}

// setCatalogCacheHeaders allows short shared caching; the catalog only moves
// when the feed is re-fetched.
func setCatalogCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, max-age=60")
}

type productListPayload struct {
	Items         []winePayload         `json:"items"`
	Facets        services.Facets       `json:"facets"`
	ActiveFilters []activeFilterPayload `json:"activeFilters,omitempty"`
	Total         int                   `json:"total"`
}

type wineResponse struct {
	Product winePayload `json:"product"`
}

type winePayload struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug,omitempty"`
	Name           string   `json:"name"`
	Image          string   `json:"image,omitempty"`
	Price          int64    `json:"price"`
	Sale           bool     `json:"sale"`
	SalePrice      *int64   `json:"salePrice,omitempty"`
	EffectivePrice int64    `json:"effectivePrice"`
	Type           string   `json:"type,omitempty"`
	GrapeVariety   string   `json:"grapeVariety,omitempty"`
	Flavor         string   `json:"flavor,omitempty"`
	Year           int      `json:"year,omitempty"`
	Edition        string   `json:"edition,omitempty"`
	QualityLevel   string   `json:"qualityLevel,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Description    string   `json:"description,omitempty"`
	Alcohol        string   `json:"alcohol,omitempty"`
	Sugar          string   `json:"sugar,omitempty"`
	Acidity        string   `json:"acidity,omitempty"`
	ReleasedAt     string   `json:"releasedAt,omitempty"`
}

type eventListPayload struct {
	Items []eventPayload `json:"items"`
	Total int            `json:"total"`
}

type eventResponse struct {
	Event eventPayload `json:"event"`
}

type eventPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image,omitempty"`
	Price    int64  `json:"price"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	Category string `json:"category,omitempty"`
	Spots    *int   `json:"spots,omitempty"`
	IsFull   bool   `json:"isFull"`
}

type activeFilterPayload struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
}

func buildWinePayloads(wines []domain.Wine) []winePayload {
	payload := make([]winePayload, 0, len(wines))
	for _, wine := range wines {
		payload = append(payload, buildWinePayload(wine))
	}
	return payload
}

func buildWinePayload(wine domain.Wine) winePayload {
	payload := winePayload{
		ID:             wine.ID,
		Slug:           wine.Slug,
		Name:           wine.Name,
		Image:          wine.Image,
		Price:          wine.Price,
		Sale:           wine.Sale,
		EffectivePrice: wine.EffectivePrice(),
		Type:           string(wine.Type),
		GrapeVariety:   wine.GrapeVariety,
		Flavor:         wine.Flavor,
		Year:           wine.Year,
		Edition:        wine.Edition,
		QualityLevel:   wine.QualityLevel,
		Description:    wine.Description,
		Alcohol:        wine.Alcohol,
		Sugar:          wine.Sugar,
		Acidity:        wine.Acidity,
	}
	if wine.Sale && wine.SalePrice != nil {
		price := *wine.SalePrice
		payload.SalePrice = &price
	}
	for _, tag := range wine.Tags {
		payload.Tags = append(payload.Tags, tag.Slug)
	}
	if !wine.ReleasedAt.IsZero() {
		payload.ReleasedAt = formatTime(wine.ReleasedAt)
	}
	return payload
}

func buildEventPayload(event domain.Event) eventPayload {
	payload := eventPayload{
		ID:       event.ID,
		Title:    event.Title,
		Image:    event.Image,
		Price:    event.Price,
		Date:     event.Date,
		Time:     event.Time,
		Location: event.Location,
		Category: string(event.Category),
		IsFull:   event.IsFull,
	}
	if event.Spots != nil {
		spots := *event.Spots
		payload.Spots = &spots
	}
	return payload
}

func buildActiveFilterPayloads(filters []services.ActiveFilter) []activeFilterPayload {
	if len(filters) == 0 {
		return nil
	}
	payload := make([]activeFilterPayload, 0, len(filters))
	for _, filter := range filters {
		payload = append(payload, activeFilterPayload{
			Key:          filter.Key,
			Label:        filter.Label,
			Value:        filter.Value,
			DisplayValue: filter.DisplayValue,
		})
	}
	return payload
}
