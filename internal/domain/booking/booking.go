package booking

import (
	"time"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/calendar"
	"github.com/eventsystem/service-booking/internal/platform/validation"
)

// Spec carries the user-supplied fields of a booking.
type Spec struct {
	VenueID     int64     `json:"venue_id" validate:"required" label:"Venue"`
	EventID     int64     `json:"event_id" validate:"required" label:"Event"`
	BookingDate time.Time `json:"booking_date" validate:"required" label:"Booking date"`
}

// Validate checks the field constraints of the input.
func (s Spec) Validate() *apperr.Error {
	return validation.Struct(s)
}

// Booking links one venue to one event on one calendar date.
type Booking struct {
	id          int64
	venueID     int64
	eventID     int64
	bookingDate time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a booking that has not been persisted yet (id 0).
func NewBooking(spec Spec) (*Booking, error) {
	if verr := spec.Validate(); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	return &Booking{
		venueID:     spec.VenueID,
		eventID:     spec.EventID,
		bookingDate: calendar.DateOf(spec.BookingDate),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, venueID, eventID int64,
	bookingDate time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		venueID:     venueID,
		eventID:     eventID,
		bookingDate: calendar.DateOf(bookingDate),
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the surrogate identity; zero until the booking is saved.
func (b *Booking) ID() int64 { return b.id }

// VenueID returns the booked venue; zero means no venue.
func (b *Booking) VenueID() int64 { return b.venueID }

// EventID returns the event the venue is booked for.
func (b *Booking) EventID() int64 { return b.eventID }

// BookingDate returns the booked calendar date at UTC midnight.
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignID records the identity handed out by the store on insert.
func (b *Booking) AssignID(id int64) {
	b.id = id
}

// Reschedule replaces the venue, event and date. The caller must re-run the
// conflict policy before persisting.
func (b *Booking) Reschedule(spec Spec) error {
	if verr := spec.Validate(); verr != nil {
		return verr
	}
	b.venueID = spec.VenueID
	b.eventID = spec.EventID
	b.bookingDate = calendar.DateOf(spec.BookingDate)
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
