package model

import "time"

type Payment struct {
	PaymentID       int64      `json:"paymentid"`
	BookingID       int64      `json:"bookingid"`
	AmountPaid      int64      `json:"amountpaid"`
	PaymentStatus   string     `json:"paymentstatus"`
	PaymentProvider string     `json:"paymentprovider"`
	ProviderRef     string     `json:"providerref"`
	ProviderPayload []byte     `json:"-"`
	CreatedAt       time.Time  `json:"createdat"`
	PaidAt          *time.Time `json:"paidat,omitempty"`
}
