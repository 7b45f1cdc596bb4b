package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	"github.com/weinberg-digital/storefront-api/internal/repositories/memory"
)

func bookingCatalog(t *testing.T) *CatalogService {
	t.Helper()

	spots := 8
	return loadedCatalog(t, []domain.Product{
		domain.EventProduct(domain.Event{
			ID:       "ev-tasting",
			Title:    "Weinprobe im Gewölbekeller",
			Price:    4500,
			Date:     "2026-09-12",
			Time:     "18:00",
			Location: "Gewölbekeller",
			Category: domain.EventCategoryWeinprobe,
			Spots:    &spots,
		}),
		domain.EventProduct(domain.Event{
			ID:       "ev-full",
			Title:    "Ausgebuchte Kellerführung",
			Price:    2500,
			Category: domain.EventCategoryKellerblicke,
			IsFull:   true,
		}),
	})
}

func newTestBookingService(t *testing.T, catalog *CatalogService, publisher *stubPublisher) *BookingService {
	t.Helper()

	ids := 0
	deps := BookingServiceDeps{
		Repository: memory.NewBookingRepository(),
		Catalog:    catalog,
		Clock:      func() time.Time { return time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC) },
		IDGenerator: func() string {
			ids++
			return fmt.Sprintf("booking-%d", ids)
		},
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	service, err := NewBookingService(deps)
	if err != nil {
		t.Fatalf("NewBookingService returned error: %v", err)
	}
	return service
}

func TestBookSnapshotsEventDetails(t *testing.T) {
	publisher := &stubPublisher{}
	service := newTestBookingService(t, bookingCatalog(t), publisher)
	ctx := context.Background()

	booking, err := service.Book(ctx, "user-1", "ev-tasting", 3)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if booking.EventTitle != "Weinprobe im Gewölbekeller" {
		t.Fatalf("expected snapshotted title, got %q", booking.EventTitle)
	}
	if booking.Date != "2026-09-12" || booking.Time != "18:00" {
		t.Fatalf("expected snapshotted date/time, got %q %q", booking.Date, booking.Time)
	}
	if booking.TotalAmount != 13500 {
		t.Fatalf("expected total 3*4500=13500, got %d", booking.TotalAmount)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", booking.Status)
	}

	if len(publisher.bookings) != 1 {
		t.Fatalf("expected 1 published booking event, got %d", len(publisher.bookings))
	}
	msg := publisher.bookings[0]
	if msg.BookingID != booking.ID || msg.Guests != 3 || msg.TotalAmount != 13500 {
		t.Fatalf("unexpected published message: %+v", msg)
	}
}

func TestBookRejectsFullEvent(t *testing.T) {
	service := newTestBookingService(t, bookingCatalog(t), nil)
	ctx := context.Background()

	if _, err := service.Book(ctx, "user-1", "ev-full", 1); !errors.Is(err, ErrBookingEventFull) {
		t.Fatalf("expected ErrBookingEventFull for flagged event, got %v", err)
	}
	// 8 open spots cannot take 9 guests.
	if _, err := service.Book(ctx, "user-1", "ev-tasting", 9); !errors.Is(err, ErrBookingEventFull) {
		t.Fatalf("expected ErrBookingEventFull for oversized party, got %v", err)
	}
}

func TestBookUnknownEventAndInvalidInput(t *testing.T) {
	service := newTestBookingService(t, bookingCatalog(t), nil)
	ctx := context.Background()

	if _, err := service.Book(ctx, "user-1", "no-such-event", 2); !errors.Is(err, ErrBookingEventNotFound) {
		t.Fatalf("expected ErrBookingEventNotFound, got %v", err)
	}
	if _, err := service.Book(ctx, "user-1", "ev-tasting", 0); !errors.Is(err, ErrBookingInvalidInput) {
		t.Fatalf("expected ErrBookingInvalidInput for zero guests, got %v", err)
	}
	if _, err := service.Book(ctx, "", "ev-tasting", 1); !errors.Is(err, ErrBookingInvalidInput) {
		t.Fatalf("expected ErrBookingInvalidInput for blank user, got %v", err)
	}
}

func TestCancelBookingIdempotentAndOwned(t *testing.T) {
	service := newTestBookingService(t, bookingCatalog(t), nil)
	ctx := context.Background()

	booking, err := service.Book(ctx, "user-1", "ev-tasting", 2)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	cancelled, err := service.Cancel(ctx, "user-1", booking.ID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Fatalf("expected cancelled status, got %q", cancelled.Status)
	}

	// Cancelling again is a no-op, not an error.
	again, err := service.Cancel(ctx, "user-1", booking.ID)
	if err != nil {
		t.Fatalf("second Cancel returned error: %v", err)
	}
	if again.Status != domain.BookingStatusCancelled {
		t.Fatalf("expected status to stay cancelled, got %q", again.Status)
	}

	// Another user cannot cancel it.
	if _, err := service.Cancel(ctx, "user-2", booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for foreign user, got %v", err)
	}
	if _, err := service.Cancel(ctx, "user-1", "no-such-booking"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for unknown id, got %v", err)
	}
}

func TestBookingListings(t *testing.T) {
	service := newTestBookingService(t, bookingCatalog(t), nil)
	ctx := context.Background()

	if _, err := service.Book(ctx, "user-1", "ev-tasting", 2); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if _, err := service.Book(ctx, "user-2", "ev-tasting", 4); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	mine, err := service.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != "user-1" {
		t.Fatalf("expected only user-1 bookings, got %+v", mine)
	}

	taken, err := service.ListByEvent(ctx, "ev-tasting")
	if err != nil {
		t.Fatalf("ListByEvent returned error: %v", err)
	}
	if len(taken) != 2 {
		t.Fatalf("expected 2 bookings for the event, got %d", len(taken))
	}
}
