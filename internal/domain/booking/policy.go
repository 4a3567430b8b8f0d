package booking

import (
	"iter"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// ReasonVenueBooked is the rejection reason for a (venue, date) collision.
const ReasonVenueBooked = "venue already booked on this date"

// MsgVenueBooked is shown next to the booking date field on rejection.
const MsgVenueBooked = "This venue is already booked on the selected date."

// Verdict is the outcome of a policy check.
type Verdict struct {
	Accepted bool
	Reason   string
}

// Accepted is the verdict for a booking that may be written.
func Accepted() Verdict { return Verdict{Accepted: true} }

// Rejected is the verdict for a booking that must not be written.
func Rejected(reason string) Verdict { return Verdict{Reason: reason} }

// Err converts a rejection into a conflict error, or returns nil when accepted.
func (v Verdict) Err() *apperr.Error {
	if v.Accepted {
		return nil
	}
	e := apperr.NewConflictError(v.Reason)
	e.Fields = map[string]string{"booking_date": MsgVenueBooked}
	return e
}

// Policy decides whether a candidate booking collides with existing ones.
// It holds no state and performs no I/O.
type Policy struct{}

// NewPolicy returns the booking conflict policy.
func NewPolicy() Policy { return Policy{} }

// Validate rejects the candidate if some other booking holds the same venue on
// the same date. A booking never conflicts with itself (matched by id), and a
// candidate without a venue never conflicts. Scanning stops at the first match.
func (Policy) Validate(candidate *Booking, existing iter.Seq[*Booking]) Verdict {
	if candidate == nil || candidate.VenueID() == 0 {
		return Accepted()
	}
	for other := range existing {
		if Conflicts(candidate, other) {
			return Rejected(ReasonVenueBooked)
		}
	}
	return Accepted()
}

// Conflicts reports whether a and b are distinct bookings of the same venue on the same date.
func Conflicts(a, b *Booking) bool {
	if a == nil || b == nil || a.VenueID() == 0 {
		return false
	}
	if a.ID() != 0 && a.ID() == b.ID() {
		return false
	}
	return a.VenueID() == b.VenueID() && a.BookingDate().Equal(b.BookingDate())
}
