package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a confirmed purchase of seats for a show
type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef    string    `gorm:"unique;not null" json:"booking_ref"`
	UserID        string    `gorm:"index;not null;size:100" json:"user_id"`
	ShowID        uuid.UUID `gorm:"type:uuid;index;not null" json:"show_id"`
	LockID        string    `gorm:"size:64" json:"lock_id"`
	TotalSeats    int       `gorm:"not null" json:"total_seats"`
	TotalPrice    float64   `gorm:"not null" json:"total_price"`
	PaymentMethod string    `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentRef    string    `gorm:"size:64" json:"payment_ref"`
	Status        Status    `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Seats []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingSeat is one seat sold by a booking. (show_id, seat_row, seat_number)
// is unique, see database.MigrateConstraints.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	ShowID     uuid.UUID `gorm:"type:uuid;not null" json:"show_id"`
	Row        string    `gorm:"column:seat_row;not null;size:8" json:"row"`
	SeatNumber int       `gorm:"not null" json:"seat_number"`
	Price      float64   `gorm:"not null" json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}
