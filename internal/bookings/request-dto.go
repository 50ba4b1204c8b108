package bookings

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	ShowID        string               `json:"showId" binding:"required,uuid"`
	Seats         []BookingSeatRequest `json:"seats" binding:"required,min=1,max=10,dive"`
	PaymentMethod string               `json:"paymentMethod" binding:"required,max=50"`
	LockID        string               `json:"lockId" binding:"required"`
}

type BookingSeatRequest struct {
	Row        string  `json:"row" binding:"required,max=8"`
	SeatNumber int     `json:"seatNumber" binding:"required,min=1"`
	Price      float64 `json:"price" binding:"min=0"`
}

type BookingListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
