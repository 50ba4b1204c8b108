package shows

import (
	"context"
	"errors"

	"seatlock/internal/locks"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, show *Show, seats []ShowSeat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetSeats(ctx context.Context, showID uuid.UUID) ([]ShowSeat, error)
	FindSeats(ctx context.Context, showID uuid.UUID, refs []locks.SeatRef) ([]ShowSeat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, show *Show, seats []ShowSeat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(show).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].ShowID = show.ID
		}
		if len(seats) == 0 {
			return nil
		}
		return tx.CreateInBatches(seats, 100).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetSeats(ctx context.Context, showID uuid.UUID) ([]ShowSeat, error) {
	var seats []ShowSeat
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("seat_row ASC, seat_number ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) FindSeats(ctx context.Context, showID uuid.UUID, refs []locks.SeatRef) ([]ShowSeat, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	pairs := make([][]interface{}, 0, len(refs))
	for _, ref := range refs {
		pairs = append(pairs, []interface{}{ref.Row, ref.SeatNumber})
	}

	var seats []ShowSeat
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Where("(seat_row, seat_number) IN ?", pairs).
		Find(&seats).Error
	return seats, err
}
