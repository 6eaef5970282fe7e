package services

import "context"

// EmailSender sends transactional mail. Implemented by external/resend.
type EmailSender interface {
	SendOTP(ctx context.Context, toEmail, code, purpose string) error
	SendBookingConfirmation(ctx context.Context, toEmail, tourTitle string, bookingID int64) error
}
