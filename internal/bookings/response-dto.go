package bookings

import "time"

type BookingResponse struct {
	ID            string                `json:"id"`
	BookingRef    string                `json:"bookingRef"`
	ShowID        string                `json:"showId"`
	Seats         []BookingSeatResponse `json:"seats"`
	TotalSeats    int                   `json:"totalSeats"`
	TotalPrice    float64               `json:"totalPrice"`
	PaymentMethod string                `json:"paymentMethod"`
	PaymentRef    string                `json:"paymentRef,omitempty"`
	Status        string                `json:"status"`
	CreatedAt     time.Time             `json:"createdAt"`
}

type BookingSeatResponse struct {
	Row        string  `json:"row"`
	SeatNumber int     `json:"seatNumber"`
	Price      float64 `json:"price"`
}

// CreateBookingResponse wraps the booking as {booking: {...}}
type CreateBookingResponse struct {
	Booking *BookingResponse `json:"booking"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func toBookingResponse(b *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		ShowID:        b.ShowID.String(),
		Seats:         make([]BookingSeatResponse, 0, len(b.Seats)),
		TotalSeats:    b.TotalSeats,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: b.PaymentMethod,
		PaymentRef:    b.PaymentRef,
		Status:        b.Status.String(),
		CreatedAt:     b.CreatedAt,
	}
	for _, s := range b.Seats {
		resp.Seats = append(resp.Seats, BookingSeatResponse{Row: s.Row, SeatNumber: s.SeatNumber, Price: s.Price})
	}
	return resp
}
