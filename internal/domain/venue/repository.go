package venue

import (
	"context"
)

// Repository defines persistence operations for venues.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Venue, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByName matches the name exactly (case-sensitive, no trimming),
	// ignoring the venue with id excludingID. Pass 0 to exclude nothing.
	ExistsByName(ctx context.Context, name string, excludingID int64) (bool, error)

	List(ctx context.Context, page, limit int) ([]*Venue, int64, error)
	Save(ctx context.Context, venue *Venue) error
	Update(ctx context.Context, venue *Venue) error

	// Delete removes a venue. A venue still referenced by bookings surfaces as
	// a dependency error.
	Delete(ctx context.Context, id int64) error
}
