package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          int64       `gorm:"primaryKey"`
	VenueID     int64       `gorm:"not null;uniqueIndex:idx_bookings_venue_date,priority:1"`
	EventID     int64       `gorm:"not null;index:idx_bookings_event_id"`
	BookingDate time.Time   `gorm:"type:date;not null;uniqueIndex:idx_bookings_venue_date,priority:2"`
	Venue       *VenueModel `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Event       *EventModel `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Version     int64       `gorm:"not null;default:1"`
	CreatedAt   time.Time   `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time   `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Booking", id)
		}
		return nil, storageFault("failed to find booking", err)
	}
	return toDomainBooking(&model), nil
}

// ListByVenue returns all bookings of a venue ordered by date.
func (r *GormBookingRepository) ListByVenue(ctx context.Context, venueID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("booking_date ASC").
		Find(&models).Error; err != nil {
		return nil, storageFault("failed to list venue bookings", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings, nil
}

// ExistsByVenue reports whether any booking references the venue.
func (r *GormBookingRepository) ExistsByVenue(ctx context.Context, venueID int64) (bool, error) {
	return r.exists(ctx, "venue_id = ?", venueID)
}

// ExistsByEvent reports whether any booking references the event.
func (r *GormBookingRepository) ExistsByEvent(ctx context.Context, eventID int64) (bool, error) {
	return r.exists(ctx, "event_id = ?", eventID)
}

func (r *GormBookingRepository) exists(ctx context.Context, cond string, arg int64) (bool, error) {
	var exists bool
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("count(*) > 0").
		Where(cond, arg).
		Find(&exists).Error; err != nil {
		return false, storageFault("failed to check booking references", err)
	}
	return exists, nil
}

// Save inserts a new booking. The unique index on (venue_id, booking_date)
// makes a concurrent double booking fail here with the policy's own verdict.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Omit("Venue", "Event").Create(model).Error; err != nil {
		return bookingWriteError("failed to save booking", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion was called before Update, so the stored row holds version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"venue_id":     model.VenueID,
			"event_id":     model.EventID,
			"booking_date": model.BookingDate,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return bookingWriteError("failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(ctx, r.db, &BookingModel{}, "Booking", model.ID)
	}
	return nil
}

// Delete removes a booking. Nothing references bookings, so this is never blocked.
func (r *GormBookingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return storageFault("failed to delete booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Booking", id)
	}
	return nil
}

// CountByVenue returns booking counts per venue, busiest first (admin).
func (r *GormBookingRepository) CountByVenue(ctx context.Context) ([]bookingDomain.VenueCount, error) {
	type venueCount struct {
		VenueID   int64
		VenueName string
		Bookings  int64
	}
	var rows []venueCount
	if err := r.db.WithContext(ctx).
		Table("bookings b").
		Select("v.id AS venue_id, v.venue_name AS venue_name, count(*) AS bookings").
		Joins("JOIN venues v ON v.id = b.venue_id").
		Group("v.id, v.venue_name").
		Order("bookings DESC, v.venue_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, storageFault("failed to count bookings by venue", err)
	}

	counts := make([]bookingDomain.VenueCount, len(rows))
	for i, row := range rows {
		counts[i] = bookingDomain.VenueCount{VenueID: row.VenueID, VenueName: row.VenueName, Bookings: row.Bookings}
	}
	return counts, nil
}

func bookingWriteError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return bookingDomain.Rejected(bookingDomain.ReasonVenueBooked).Err().WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NewFieldErrors(map[string]string{
			"venue_id": "The selected venue or event no longer exists.",
			"event_id": "The selected venue or event no longer exists.",
		}).WithCause(err)
	default:
		return storageFault(op, err)
	}
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:          bk.ID(),
		VenueID:     bk.VenueID(),
		EventID:     bk.EventID(),
		BookingDate: bk.BookingDate(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.VenueID,
		m.EventID,
		m.BookingDate,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
