package services

import (
	"context"
	"errors"
	"time"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

var (
	ErrBookingForbidden = errors.New("forbidden")
)

// BookingStore is the slice of the booking repository the booking and
// payment flows need.
type BookingStore interface {
	Create(ctx context.Context, tourID, userID int64, travelDate time.Time, guests int, totalPrice float64) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Booking, error)
	List(ctx context.Context, limit, offset int) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) error
}

// TourGetter loads tours for price and capacity checks.
type TourGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Tour, error)
}

type BookingService struct {
	Bookings BookingStore
	Tours    TourGetter
}

func NewBookingService(br BookingStore, tr TourGetter) *BookingService {
	return &BookingService{Bookings: br, Tours: tr}
}

// Book reserves a published tour. The total is always computed server-side
// from the current tour price.
func (s *BookingService) Book(ctx context.Context, userID, tourID int64, travelDate time.Time, guests int) (*model.Booking, error) {
	tour, err := s.Tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !tour.IsPublished {
		return nil, model.ErrNotFound
	}
	if guests <= 0 {
		return nil, errors.New("guests must be positive")
	}
	if guests > tour.MaxGroupSize {
		return nil, errors.New("group too large for this tour")
	}
	if travelDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, errors.New("travel date is in the past")
	}

	total := tour.Price * float64(guests)
	id, err := s.Bookings.Create(ctx, tourID, userID, travelDate, guests, total)
	if err != nil {
		return nil, err
	}
	return s.Bookings.GetByID(ctx, id)
}

// GetOwned loads a booking and enforces that it belongs to userID.
func (s *BookingService) GetOwned(ctx context.Context, bookingID, userID int64) (*model.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookingForbidden
	}
	return b, nil
}

func (s *BookingService) ListMine(ctx context.Context, userID int64, limit, offset int) ([]model.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *BookingService) ListAll(ctx context.Context, limit, offset int) ([]model.Booking, error) {
	return s.Bookings.List(ctx, limit, offset)
}

// Cancel lets a traveller cancel an unpaid booking.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID int64) error {
	b, err := s.GetOwned(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if b.Status != model.BookingStatusPendingPayment && b.Status != model.BookingStatusPending {
		return errors.New("only unpaid bookings can be cancelled")
	}
	return s.Bookings.UpdateStatus(ctx, bookingID, b.Status, model.BookingStatusCancelled)
}
