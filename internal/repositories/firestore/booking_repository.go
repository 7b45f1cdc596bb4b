package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/weinberg-digital/storefront-api/internal/domain"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
)

const bookingCollection = "bookings"

type bookingDocument struct {
	UserID      string    `firestore:"userId"`
	EventID     string    `firestore:"eventId"`
	EventTitle  string    `firestore:"eventTitle"`
	Date        string    `firestore:"date"`
	Time        string    `firestore:"time"`
	Guests      int       `firestore:"guests"`
	TotalAmount int64     `firestore:"totalAmount"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// BookingRepository persists event bookings, one document per booking.
type BookingRepository struct {
	base *pfirestore.BaseRepository[bookingDocument]
}

// NewBookingRepository constructs a Firestore-backed booking repository.
func NewBookingRepository(provider *pfirestore.Provider) (*BookingRepository, error) {
	if provider == nil {
		return nil, errors.New("booking repository requires firestore provider")
	}
	return &BookingRepository{
		base: pfirestore.NewBaseRepository[bookingDocument](provider, bookingCollection),
	}, nil
}

// Insert writes the booking document keyed by the booking ID.
func (r *BookingRepository) Insert(ctx context.Context, booking domain.Booking) error {
	id := strings.TrimSpace(booking.ID)
	if id == "" {
		return errors.New("booking repository: booking id is required")
	}
	if strings.TrimSpace(booking.UserID) == "" {
		return errors.New("booking repository: user id is required")
	}
	_, err := r.base.Set(ctx, id, encodeBooking(booking))
	return err
}

// FindByID loads a single booking.
func (r *BookingRepository) FindByID(ctx context.Context, bookingID string) (domain.Booking, error) {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return domain.Booking{}, errors.New("booking repository: booking id is required")
	}
	doc, err := r.base.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	return decodeBooking(doc.ID, doc.Data), nil
}

// ListByUser returns the user's bookings, most recent first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("booking repository: user id is required")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("userId", "==", uid).OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, decodeBooking(doc.ID, doc.Data))
	}
	return bookings, nil
}

// ListByEvent returns every booking taken for an event.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	id := strings.TrimSpace(eventID)
	if id == "" {
		return nil, errors.New("booking repository: event id is required")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("eventId", "==", id).OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, decodeBooking(doc.ID, doc.Data))
	}
	return bookings, nil
}

// UpdateStatus flips the booking status and returns the updated booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (domain.Booking, error) {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return domain.Booking{}, errors.New("booking repository: booking id is required")
	}

	if _, err := r.base.Update(ctx, id, []firestore.Update{
		{Path: "status", Value: string(status)},
	}); err != nil {
		return domain.Booking{}, err
	}
	return r.FindByID(ctx, id)
}

func encodeBooking(booking domain.Booking) bookingDocument {
	return bookingDocument{
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		EventTitle:  booking.EventTitle,
		Date:        booking.Date,
		Time:        booking.Time,
		Guests:      booking.Guests,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt.UTC(),
	}
}

func decodeBooking(id string, doc bookingDocument) domain.Booking {
	return domain.Booking{
		ID:          id,
		UserID:      doc.UserID,
		EventID:     doc.EventID,
		EventTitle:  doc.EventTitle,
		Date:        doc.Date,
		Time:        doc.Time,
		Guests:      doc.Guests,
		TotalAmount: doc.TotalAmount,
		Status:      domain.BookingStatus(doc.Status),
		CreatedAt:   doc.CreatedAt,
	}
}

var _ repositories.BookingRepository = (*BookingRepository)(nil)
