package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	"github.com/eventsystem/service-booking/internal/platform/calendar"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// BookingViewModel maps the booking_view SQL view. It is never written.
type BookingViewModel struct {
	BookingID   int64     `gorm:"column:booking_id"`
	VenueName   string    `gorm:"column:venue_name"`
	Location    string    `gorm:"column:location"`
	EventName   string    `gorm:"column:event_name"`
	EventDate   time.Time `gorm:"column:event_date"`
	BookingDate time.Time `gorm:"column:booking_date"`
}

func (BookingViewModel) TableName() string { return "booking_view" }

// GormBookingViewRepository implements booking.ViewRepository over the view.
type GormBookingViewRepository struct {
	db *gorm.DB
}

func NewGormBookingViewRepository(db *gorm.DB) *GormBookingViewRepository {
	return &GormBookingViewRepository{db: db}
}

// Search filters by a case-insensitive substring of event name, venue name or booking id.
func (r *GormBookingViewRepository) Search(ctx context.Context, term string, page, limit int) ([]bookingDomain.View, int64, error) {
	q := r.db.WithContext(ctx).Model(&BookingViewModel{})
	if term != "" {
		pattern := "%" + EscapeLike(term) + "%"
		q = q.Where(
			"event_name ILIKE ? OR venue_name ILIKE ? OR CAST(booking_id AS TEXT) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, storageFault("failed to count bookings", err)
	}

	var models []BookingViewModel
	if err := q.Session(&gorm.Session{}).
		Order("booking_date DESC, booking_id DESC").
		Offset(paging.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, storageFault("failed to search bookings", err)
	}

	views := make([]bookingDomain.View, len(models))
	for i, m := range models {
		views[i] = bookingDomain.View{
			BookingID:   m.BookingID,
			VenueName:   m.VenueName,
			Location:    m.Location,
			EventName:   m.EventName,
			EventDate:   calendar.DateOf(m.EventDate),
			BookingDate: calendar.DateOf(m.BookingDate),
		}
	}
	return views, total, nil
}

type detailRow struct {
	ID          int64
	VenueID     int64
	EventID     int64
	BookingDate time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	VenueName   string
	Location    string
	EventName   string
	EventDate   time.Time
}

// FindDetails loads a booking together with its venue and event names.
func (r *GormBookingViewRepository) FindDetails(ctx context.Context, id int64) (*bookingDomain.Details, error) {
	var row detailRow
	err := r.db.WithContext(ctx).
		Table("bookings b").
		Select("b.id, b.venue_id, b.event_id, b.booking_date, b.version, b.created_at, b.updated_at, " +
			"v.venue_name, v.location, e.event_name, e.event_date").
		Joins("JOIN venues v ON v.id = b.venue_id").
		Joins("JOIN events e ON e.id = b.event_id").
		Where("b.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Booking", id)
		}
		return nil, storageFault("failed to load booking details", err)
	}

	return &bookingDomain.Details{
		Booking: bookingDomain.ReconstructBooking(
			row.ID, row.VenueID, row.EventID, row.BookingDate,
			row.Version, row.CreatedAt, row.UpdatedAt,
		),
		VenueName: row.VenueName,
		Location:  row.Location,
		EventName: row.EventName,
		EventDate: calendar.DateOf(row.EventDate),
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards so the term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
