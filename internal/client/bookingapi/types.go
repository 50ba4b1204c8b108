package bookingapi

import "time"

// Show is the detail record returned by GET /shows/{showId}
type Show struct {
	ID           string    `json:"id"`
	MovieTitle   string    `json:"movieTitle"`
	PosterURL    string    `json:"posterUrl,omitempty"`
	Language     string    `json:"language,omitempty"`
	VenueName    string    `json:"venueName"`
	VenueAddress string    `json:"venueAddress,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	Price        float64   `json:"price"`
}

// SeatInfo is one entry of GET /shows/{showId}/seats
type SeatInfo struct {
	Row         string  `json:"row"`
	SeatNumber  int     `json:"seatNumber"`
	IsAvailable bool    `json:"isAvailable"`
	Price       float64 `json:"price"`
	Status      string  `json:"status,omitempty"` // available, sold or locked
}

type SeatRef struct {
	Row        string `json:"row" validate:"required,max=8"`
	SeatNumber int    `json:"seatNumber" validate:"required,min=1"`
}

// LockGrant is the successful answer to POST /locks
type LockGrant struct {
	LockID    string    `json:"lockId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type BookingSeat struct {
	Row        string  `json:"row" validate:"required,max=8"`
	SeatNumber int     `json:"seatNumber" validate:"required,min=1"`
	Price      float64 `json:"price" validate:"gte=0"`
}

// BookingRequest is the body of POST /bookings
type BookingRequest struct {
	ShowID        string        `json:"showId" validate:"required"`
	Seats         []BookingSeat `json:"seats" validate:"required,min=1,dive"`
	PaymentMethod string        `json:"paymentMethod" validate:"required,max=50"`
	LockID        string        `json:"lockId" validate:"required"`
}

// Booking is the persisted record returned by a successful POST /bookings
type Booking struct {
	ID            string        `json:"id"`
	BookingRef    string        `json:"bookingRef"`
	ShowID        string        `json:"showId"`
	Seats         []BookingSeat `json:"seats"`
	TotalSeats    int           `json:"totalSeats"`
	TotalPrice    float64       `json:"totalPrice"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentRef    string        `json:"paymentRef,omitempty"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}
