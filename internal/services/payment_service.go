package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	mt "github.com/alpha-brackets/Dazzling-Tours-sub000/external/midtrans"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

var (
	ErrPaymentExists    = errors.New("payment already exists")
	ErrBookingNotDue    = errors.New("booking cannot be paid")
	ErrBadSignature     = errors.New("invalid notification signature")
	ErrUnknownReference = errors.New("unknown payment reference")
)

// PaymentStore persists provider transactions.
type PaymentStore interface {
	CreatePending(ctx context.Context, bookingID int64, amount int64, provider, providerRef string, payload []byte) (int64, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error)
	GetByProviderRef(ctx context.Context, ref string) (*model.Payment, error)
	MarkSettled(ctx context.Context, paymentID int64, payload []byte) error
	MarkFailed(ctx context.Context, paymentID int64, payload []byte) error
}

// UserGetter resolves the traveller behind a booking for notifications.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SnapAPI is the slice of the Midtrans snap client we call.
// Satisfied by *snap.Client.
type SnapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type PaymentService struct {
	Payments  PaymentStore
	Bookings  BookingStore
	Tours     TourGetter
	Users     UserGetter
	Snap      SnapAPI
	Mailer    EmailSender
	ServerKey string
}

func NewPaymentService(
	pr PaymentStore,
	br BookingStore,
	tr TourGetter,
	ur UserGetter,
	snapClient SnapAPI,
	mailer EmailSender,
	serverKey string,
) *PaymentService {
	return &PaymentService{
		Payments:  pr,
		Bookings:  br,
		Tours:     tr,
		Users:     ur,
		Snap:      snapClient,
		Mailer:    mailer,
		ServerKey: serverKey,
	}
}

// CreateSnapPayment opens a Midtrans Snap transaction for an unpaid booking
// owned by userID and returns the redirect URL.
func (s *PaymentService) CreateSnapPayment(ctx context.Context, bookingID, userID int64) (string, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.UserID != userID {
		return "", ErrBookingForbidden
	}
	switch booking.Status {
	case model.BookingStatusPending:
		if err := s.Bookings.UpdateStatus(ctx, bookingID,
			model.BookingStatusPending, model.BookingStatusPendingPayment); err != nil {
			return "", err
		}
	case model.BookingStatusPendingPayment:
		// retrying after an abandoned checkout
	default:
		return "", ErrBookingNotDue
	}

	existing, err := s.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.PaymentStatus == "Pending" {
		return "", ErrPaymentExists
	}

	externalRef := fmt.Sprintf("BOOKING-%d-%s", bookingID, uuid.NewString())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  externalRef,
			GrossAmt: int64(booking.TotalPrice),
		},
	}

	resp, snapErr := s.Snap.CreateTransaction(req)
	if snapErr != nil {
		return "", snapErr
	}

	payload, _ := json.Marshal(resp)

	_, err = s.Payments.CreatePending(
		ctx,
		bookingID,
		int64(booking.TotalPrice),
		"midtrans",
		externalRef,
		payload,
	)
	if err != nil {
		return "", err
	}

	return resp.RedirectURL, nil
}

// HandleNotification processes a Midtrans payment webhook: verifies the
// sha512 signature, settles the pending payment exactly once, confirms the
// booking and emails the traveller.
func (s *PaymentService) HandleNotification(ctx context.Context, payload map[string]interface{}) error {
	orderID, _ := payload["order_id"].(string)
	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)
	txStatus, _ := payload["transaction_status"].(string)

	if orderID == "" || signature == "" {
		return ErrBadSignature
	}
	if !mt.VerifySignature(orderID, statusCode, grossAmount, signature, s.ServerKey) {
		return ErrBadSignature
	}

	payment, err := s.Payments.GetByProviderRef(ctx, orderID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrUnknownReference
		}
		return err
	}

	raw, _ := json.Marshal(payload)

	switch txStatus {
	case "settlement", "capture":
		if err := s.Payments.MarkSettled(ctx, payment.PaymentID, raw); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// already settled by an earlier delivery of the same webhook
				return nil
			}
			return err
		}
		return s.confirmBooking(ctx, payment.BookingID)
	case "expire", "cancel", "deny":
		if err := s.Payments.MarkFailed(ctx, payment.PaymentID, raw); err != nil {
			return err
		}
		return nil
	default:
		// pending and other transient states need no action
		return nil
	}
}

func (s *PaymentService) confirmBooking(ctx context.Context, bookingID int64) error {
	if err := s.Bookings.UpdateStatus(ctx, bookingID,
		model.BookingStatusPendingPayment, model.BookingStatusConfirmed); err != nil {
		return err
	}
	if s.Mailer == nil {
		return nil
	}
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	tour, err := s.Tours.GetByID(ctx, booking.TourID)
	if err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, booking.UserID)
	if err != nil {
		return err
	}
	return s.Mailer.SendBookingConfirmation(ctx, u.Email, tour.Title, bookingID)
}
