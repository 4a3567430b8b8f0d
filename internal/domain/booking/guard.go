package booking

import "context"

const (
	MsgVenueHasBookings = "Cannot delete this venue because it has associated bookings."
	MsgEventHasBookings = "Cannot delete this event because it has associated bookings."
)

// ReferenceChecker answers whether any booking points at a venue or event.
type ReferenceChecker interface {
	ExistsByVenue(ctx context.Context, venueID int64) (bool, error)
	ExistsByEvent(ctx context.Context, eventID int64) (bool, error)
}

// Guard decides whether a parent record may be deleted.
type Guard struct {
	refs ReferenceChecker
}

// NewGuard creates a Guard backed by refs.
func NewGuard(refs ReferenceChecker) *Guard {
	return &Guard{refs: refs}
}

// CanDeleteVenue is false while any booking references the venue.
func (g *Guard) CanDeleteVenue(ctx context.Context, venueID int64) (bool, error) {
	referenced, err := g.refs.ExistsByVenue(ctx, venueID)
	if err != nil {
		return false, err
	}
	return !referenced, nil
}

// CanDeleteEvent is false while any booking references the event.
func (g *Guard) CanDeleteEvent(ctx context.Context, eventID int64) (bool, error) {
	referenced, err := g.refs.ExistsByEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	return !referenced, nil
}
