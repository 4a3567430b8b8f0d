package booking

import (
	"context"
)

// Repository defines the persistence contract for bookings.
type Repository interface {
	ReferenceChecker

	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// ListByVenue returns every booking of a venue, the input to the conflict policy.
	ListByVenue(ctx context.Context, venueID int64) ([]*Booking, error)

	// Save inserts a new booking and assigns its id. A (venue, date) collision
	// surfaces as a conflict error.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes with optimistic locking on the version column.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking. Bookings have no dependents.
	Delete(ctx context.Context, id int64) error

	// CountByVenue returns booking counts per venue (admin report).
	CountByVenue(ctx context.Context) ([]VenueCount, error)
}

// ViewRepository queries the booking read model.
type ViewRepository interface {
	// Search matches term case-insensitively against event name, venue name
	// and the decimal booking id. An empty term matches everything.
	Search(ctx context.Context, term string, page, limit int) ([]View, int64, error)

	// FindDetails returns a booking joined with its venue and event.
	FindDetails(ctx context.Context, id int64) (*Details, error)
}
