package bookings

import "errors"

var (
	ErrInvalidBooking   = errors.New("invalid booking request")
	ErrSessionExpired   = errors.New("seat lock expired or no longer valid")
	ErrSeatsUnavailable = errors.New("seats are no longer available")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrBookingFailed    = errors.New("booking could not be completed")
	ErrBookingNotFound  = errors.New("booking not found")
)
