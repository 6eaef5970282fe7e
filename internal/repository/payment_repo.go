package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type PaymentRepository struct {
	DB DB
}

func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) CreatePending(
	ctx context.Context,
	bookingID int64,
	amount int64,
	provider string,
	providerRef string,
	payload []byte,
) (int64, error) {

	var paymentID int64
	q := `
		INSERT INTO payments
			(bookingid, amountpaid, paymentstatus, paymentprovider, providerref, providerpayload)
		VALUES
			($1, $2, 'Pending', $3, $4, $5)
		RETURNING paymentid
	`
	err := r.DB.QueryRow(
		ctx, q,
		bookingID, amount, provider, providerRef, payload,
	).Scan(&paymentID)
	if err != nil {
		return 0, mapError(err)
	}
	return paymentID, nil
}

// GetByBookingID returns the payment row for a booking, or (nil, nil) when
// none exists yet.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error) {
	var p model.Payment
	q := `
		SELECT paymentid, bookingid, amountpaid, paymentstatus,
		       paymentprovider, providerref, providerpayload,
		       createdat, paidat
		FROM payments
		WHERE bookingid=$1
		ORDER BY paymentid DESC
		LIMIT 1
	`
	err := r.DB.QueryRow(ctx, q, bookingID).Scan(
		&p.PaymentID, &p.BookingID, &p.AmountPaid, &p.PaymentStatus,
		&p.PaymentProvider, &p.ProviderRef, &p.ProviderPayload,
		&p.CreatedAt, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*model.Payment, error) {
	var p model.Payment
	q := `
		SELECT paymentid, bookingid, amountpaid, paymentstatus,
		       paymentprovider, providerref, providerpayload,
		       createdat, paidat
		FROM payments
		WHERE providerref=$1
	`
	err := r.DB.QueryRow(ctx, q, ref).Scan(
		&p.PaymentID, &p.BookingID, &p.AmountPaid, &p.PaymentStatus,
		&p.PaymentProvider, &p.ProviderRef, &p.ProviderPayload,
		&p.CreatedAt, &p.PaidAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// MarkSettled flips a pending payment to Settled exactly once.
func (r *PaymentRepository) MarkSettled(ctx context.Context, paymentID int64, payload []byte) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET paymentstatus='Settled', paidat=now(), providerpayload=$1
		WHERE paymentid=$2 AND paymentstatus='Pending'
	`, payload, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, paymentID int64, payload []byte) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET paymentstatus='Failed', providerpayload=$1
		WHERE paymentid=$2 AND paymentstatus='Pending'
	`, payload, paymentID)
	return err
}
