package repository

import (
	"context"
	"time"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type BookingRepository struct {
	DB DB
}

func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

const bookingColumns = `bookingid, tourid, userid, travel_date, guests,
		total_price, status, created_at, updated_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.BookingID, &b.TourID, &b.UserID, &b.TravelDate, &b.Guests,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, tourID, userID int64, travelDate time.Time, guests int, totalPrice float64) (int64, error) {
	var id int64
	query := `
		INSERT INTO bookings (tourid, userid, travel_date, guests, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING bookingid`
	err := r.DB.QueryRow(ctx, query,
		tourID, userID, travelDate, guests, totalPrice, model.BookingStatusPending).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE bookingid=$1`
	return scanBooking(r.DB.QueryRow(ctx, query, id))
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE userid=$1
			ORDER BY bookingid DESC LIMIT $2 OFFSET $3`
	return r.collect(ctx, query, userID, limit, offset)
}

func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY bookingid DESC LIMIT $1 OFFSET $2`
	return r.collect(ctx, query, limit, offset)
}

func (r *BookingRepository) collect(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// UpdateStatus moves a booking along its lifecycle. The expected current
// status guards against racing the payment webhook.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE bookings SET status=$1, updated_at=now()
		WHERE bookingid=$2 AND status=$3
	`, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
