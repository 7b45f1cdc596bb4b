package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

var (
	errBookingRepositoryRequired = errors.New("booking service: repository is required")
	errBookingCatalogRequired    = errors.New("booking service: catalog is required")
)

// ErrBookingInvalidInput indicates the caller supplied invalid input.
var ErrBookingInvalidInput = errors.New("booking service: invalid input")

// ErrBookingEventNotFound indicates the event is not in the catalog.
var ErrBookingEventNotFound = errors.New("booking service: event not found")

// ErrBookingEventFull indicates the event cannot take the requested guests.
var ErrBookingEventFull = errors.New("booking service: event is full")

// ErrBookingNotFound indicates the booking does not exist or belongs to another user.
var ErrBookingNotFound = errors.New("booking service: not found")

// eventResolver is the slice of the catalog service the bookings need.
type eventResolver interface {
	EventByID(id string) (domain.Event, bool)
}

// BookingServiceDeps wires the booking collaborators.
type BookingServiceDeps struct {
	Repository  repositories.BookingRepository
	Catalog     eventResolver
	Publisher   EventPublisher
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

// BookingService reserves guest spots for winery events.
type BookingService struct {
	repo      repositories.BookingRepository
	catalog   eventResolver
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
	logger    func(context.Context, string, map[string]any)
}

// NewBookingService constructs a BookingService enforcing dependency validation.
func NewBookingService(deps BookingServiceDeps) (*BookingService, error) {
	if deps.Repository == nil {
		return nil, errBookingRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errBookingCatalogRequired
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &BookingService{
		repo:      deps.Repository,
		catalog:   deps.Catalog,
		publisher: deps.Publisher,
		now:       func() time.Time { return clock().UTC() },
		newID:     newID,
		logger:    logger,
	}, nil
}

// Book reserves spots for the event. The event title, date and time are
// snapshotted so the booking stays readable after the event leaves the
// catalog. Full events and events with fewer open spots than requested
// guests are rejected.
func (s *BookingService) Book(ctx context.Context, userID string, eventID string, guests int) (domain.Booking, error) {
	uid := strings.TrimSpace(userID)
	id := strings.TrimSpace(eventID)
	if uid == "" || id == "" || guests < 1 {
		return domain.Booking{}, ErrBookingInvalidInput
	}

	event, ok := s.catalog.EventByID(id)
	if !ok {
		return domain.Booking{}, ErrBookingEventNotFound
	}
	if event.IsFull {
		return domain.Booking{}, ErrBookingEventFull
	}
	if event.Spots != nil && *event.Spots < guests {
		return domain.Booking{}, ErrBookingEventFull
	}

	booking := domain.Booking{
		ID:          s.newID(),
		UserID:      uid,
		EventID:     event.ID,
		EventTitle:  event.Title,
		Date:        event.Date,
		Time:        event.Time,
		Guests:      guests,
		TotalAmount: event.Price * int64(guests),
		Status:      domain.BookingStatusConfirmed,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Insert(ctx, booking); err != nil {
		return domain.Booking{}, err
	}

	s.publishCreated(ctx, booking)
	return booking, nil
}

// Cancel flips the booking to cancelled. Cancelling twice is idempotent.
func (s *BookingService) Cancel(ctx context.Context, userID string, bookingID string) (domain.Booking, error) {
	uid := strings.TrimSpace(userID)
	id := strings.TrimSpace(bookingID)
	if uid == "" || id == "" {
		return domain.Booking{}, ErrBookingInvalidInput
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Booking{}, ErrBookingNotFound
		}
		return domain.Booking{}, err
	}
	if booking.UserID != uid {
		return domain.Booking{}, ErrBookingNotFound
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}
	return s.repo.UpdateStatus(ctx, id, domain.BookingStatusCancelled)
}

// ListByUser returns the user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrBookingInvalidInput
	}
	return s.repo.ListByUser(ctx, uid)
}

// ListByEvent returns every booking taken for an event.
func (s *BookingService) ListByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	id := strings.TrimSpace(eventID)
	if id == "" {
		return nil, ErrBookingInvalidInput
	}
	return s.repo.ListByEvent(ctx, id)
}

func (s *BookingService) publishCreated(ctx context.Context, booking domain.Booking) {
	if s.publisher == nil {
		return
	}
	msg := BookingCreatedMessage{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		Guests:      booking.Guests,
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}
	if _, err := s.publisher.PublishBookingCreated(ctx, msg); err != nil {
		s.logger(ctx, "booking.publish_failed", map[string]any{
			"bookingId": booking.ID,
			"error":     err.Error(),
		})
	}
}
