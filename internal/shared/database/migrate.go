package database

import (
	"seatlock/internal/bookings"
	"seatlock/internal/shows"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() backs the uuid primary keys
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&shows.Show{},
		&shows.ShowSeat{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
	); err != nil {
		return err
	}

	return MigrateConstraints(db)
}
