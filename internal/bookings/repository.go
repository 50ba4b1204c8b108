package bookings

import (
	"context"
	"errors"
	"fmt"

	"seatlock/internal/shows"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChargeFunc runs inside the booking transaction after the seats are marked
// sold and before the booking row is written. It returns the payment reference.
type ChargeFunc func() (string, error)

type Repository interface {
	// CreateBooking sells the booking's seats and stores it atomically.
	// Seats already sold yield ErrSeatsUnavailable.
	CreateBooking(ctx context.Context, booking *Booking, charge ChargeFunc) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID string, query BookingListQuery) ([]Booking, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking, charge ChargeFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pairs := make([][]interface{}, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			pairs = append(pairs, []interface{}{seat.Row, seat.SeatNumber})
		}

		// Conditional update so a concurrent sale of any seat aborts the whole booking
		res := tx.Model(&shows.ShowSeat{}).
			Where("show_id = ?", booking.ShowID).
			Where("(seat_row, seat_number) IN ?", pairs).
			Where("status = ?", shows.SeatStatusAvailable).
			Update("status", shows.SeatStatusSold)
		if res.Error != nil {
			return fmt.Errorf("failed to mark seats sold: %w", res.Error)
		}
		if res.RowsAffected != int64(len(pairs)) {
			return ErrSeatsUnavailable
		}

		if charge != nil {
			ref, err := charge()
			if err != nil {
				return err
			}
			booking.PaymentRef = ref
		}

		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSeatsUnavailable
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID string, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, totalCount, nil
}
