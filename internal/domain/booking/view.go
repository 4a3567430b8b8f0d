package booking

import "time"

// View is the denormalised read model of a booking joined with its venue and
// event. It has no identity of its own and is never written.
type View struct {
	BookingID   int64     `json:"booking_id"`
	VenueName   string    `json:"venue_name"`
	Location    string    `json:"location"`
	EventName   string    `json:"event_name"`
	EventDate   time.Time `json:"event_date"`
	BookingDate time.Time `json:"booking_date"`
}

// Details is a booking together with the names of what it links.
type Details struct {
	Booking   *Booking
	VenueName string
	Location  string
	EventName string
	EventDate time.Time
}

// VenueCount is the number of bookings held by one venue.
type VenueCount struct {
	VenueID   int64
	VenueName string
	Bookings  int64
}
