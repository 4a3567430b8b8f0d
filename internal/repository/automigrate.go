package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/eventsystem/service-booking/migrations"
)

const bookingViewMigration = "000002_create_booking_view.up.sql"

// AutoMigrate syncs the tables from the GORM models and recreates the
// booking_view view. Development only; deployed databases use the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&VenueModel{}, &EventModel{}, &BookingModel{}); err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	viewSQL, err := migrations.FS.ReadFile(bookingViewMigration)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", bookingViewMigration, err)
	}
	if err := db.Exec(string(viewSQL)).Error; err != nil {
		return fmt.Errorf("failed to create booking_view: %w", err)
	}
	return nil
}
