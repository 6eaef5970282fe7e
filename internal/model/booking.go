package model

import "time"

const (
	BookingStatusPending        = "Pending"
	BookingStatusPendingPayment = "PendingPayment"
	BookingStatusConfirmed      = "Confirmed"
	BookingStatusCancelled      = "Cancelled"
)

type Booking struct {
	BookingID  int64     `json:"bookingid"`
	TourID     int64     `json:"tourid"`
	UserID     int64     `json:"userid"`
	TravelDate time.Time `json:"travel_date"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
