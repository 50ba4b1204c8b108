package shows

import (
	"time"

	"github.com/google/uuid"
)

// Show is a single screening of a movie at a venue
type Show struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieTitle   string    `json:"movie_title" gorm:"not null;size:255"`
	PosterURL    string    `json:"poster_url" gorm:"size:500"`
	Language     string    `json:"language" gorm:"size:50"`
	VenueName    string    `json:"venue_name" gorm:"not null;size:255"`
	VenueAddress string    `json:"venue_address" gorm:"size:500"`
	StartsAt     time.Time `json:"starts_at" gorm:"not null;index"`
	Price        float64   `json:"price" gorm:"not null;check:price >= 0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Seats []ShowSeat `json:"-" gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE;"`
}

// ShowSeat is the persisted inventory of one seat of a show. Temporary holds
// live in the Redis lock table, only sales are recorded here.
type ShowSeat struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ShowID     uuid.UUID  `json:"show_id" gorm:"type:uuid;not null;uniqueIndex:idx_show_seat_position"`
	Row        string     `json:"row" gorm:"column:seat_row;not null;size:8;uniqueIndex:idx_show_seat_position"`
	SeatNumber int        `json:"seat_number" gorm:"not null;uniqueIndex:idx_show_seat_position"`
	Price      float64    `json:"price" gorm:"not null;check:price >= 0"`
	Status     SeatStatus `json:"status" gorm:"type:varchar(20);default:'AVAILABLE'"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Show) TableName() string {
	return "shows"
}

func (ShowSeat) TableName() string {
	return "show_seats"
}
