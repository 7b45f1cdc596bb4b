package handlers

import (
	"context"
	"encoding/json"
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

// BookingHandlers exposes authenticated event booking endpoints.
type BookingHandlers struct {
	authn    *auth.Authenticator
	bookings *services.BookingService
}

const maxBookingBodySize = 16 * 1024

// NewBookingHandlers constructs handlers enforcing Firebase authentication before invoking the booking service.
func NewBookingHandlers(authn *auth.Authenticator, bookings *services.BookingService) *BookingHandlers {
	return &BookingHandlers{
		authn:    authn,
		bookings: bookings,
	}
}

// Routes wires the /bookings endpoints onto the provided router.
func (h *BookingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireFirebaseAuth())
	}
	r.Get("/", h.listBookings)
	r.Post("/", h.createBooking)
	r.Post("/{bookingId}:cancel", h.cancelBooking)
}

func (h *BookingHandlers) listBookings(w http.ResponseWriter, r *http.Request) {
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

	bookings, err := h.bookings.ListByUser(ctx, uid)
	if err != nil {
		h.writeBookingError(ctx, w, err)
		return
	}

	start, end := params.Window(len(bookings))
	payload := bookingListPayload{
		Items:         make([]bookingPayload, 0, end-start),
		Total:         len(bookings),
		NextPageToken: params.NextToken(len(bookings)),
	}
	for _, booking := range bookings[start:end] {
		payload.Items = append(payload.Items, buildBookingPayload(booking))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type createBookingRequest struct {
	EventID string `json:"eventId"`
	Guests  int    `json:"guests"`
}

func (h *BookingHandlers) createBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxBookingBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req createBookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "eventId is required", http.StatusBadRequest))
		return
	}

	booking, err := h.bookings.Book(ctx, uid, req.EventID, req.Guests)
	if err != nil {
		h.writeBookingError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, bookingResponse{Booking: buildBookingPayload(booking)})
}

func (h *BookingHandlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}

	bookingID := strings.TrimSpace(chi.URLParam(r, "bookingId"))
	booking, err := h.bookings.Cancel(ctx, uid, bookingID)
	if err != nil {
		h.writeBookingError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, bookingResponse{Booking: buildBookingPayload(booking)})
}

func (h *BookingHandlers) requireUser(ctx context.Context, w http.ResponseWriter) (string, bool) {
	if h.bookings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("booking_service_unavailable", "booking service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return "", false
	}
	return identity.UID, true
}

func (h *BookingHandlers) writeBookingError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrBookingInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrBookingEventNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("event_not_found", "event not found", http.StatusNotFound))
	case errors.Is(err, services.ErrBookingEventFull):
		httpx.WriteError(ctx, w, httpx.NewError("event_full", "event cannot take the requested guests", http.StatusConflict))
	case errors.Is(err, services.ErrBookingNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("booking_not_found", "booking not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("booking_error", "failed to process booking request", http.StatusInternalServerError))
	}
}

type bookingListPayload struct {
	Items         []bookingPayload `json:"items"`
	Total         int              `json:"total"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

type bookingResponse struct {
	Booking bookingPayload `json:"booking"`
}

type bookingPayload struct {
	ID          string `json:"id"`
	EventID     string `json:"eventId"`
	EventTitle  string `json:"eventTitle,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Guests      int    `json:"guests"`
	TotalAmount int64  `json:"totalAmount"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func buildBookingPayload(booking domain.Booking) bookingPayload {
	payload := bookingPayload{
		ID:          booking.ID,
		EventID:     booking.EventID,
		EventTitle:  booking.EventTitle,
		Date:        booking.Date,
		Time:        booking.Time,
		Guests:      booking.Guests,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
	}
	if !booking.CreatedAt.IsZero() {
		payload.CreatedAt = formatTime(booking.CreatedAt)
	}
	return payload
}
