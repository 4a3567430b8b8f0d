package event

import (
	"context"
)

// Repository defines persistence operations for events.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Event, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, page, limit int) ([]*Event, int64, error)
	Save(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error

	// Delete removes an event. An event still referenced by bookings surfaces
	// as a dependency error.
	Delete(ctx context.Context, id int64) error
}
