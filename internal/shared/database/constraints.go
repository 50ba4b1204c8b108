package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints that make double selling impossible
// even if the lock table is bypassed
func MigrateConstraints(db *gorm.DB) error {
	// A seat of a show can be sold at most once
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_seats_unique_position
		ON booking_seats (show_id, seat_row, seat_number);
	`).Error
	if err != nil {
		return err
	}

	// Seat listing and availability checks filter by show and status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_show_seats_show_status
		ON show_seats (show_id, status);
	`).Error
	if err != nil {
		return err
	}

	// User booking history
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
