package events

import (
	"fmt"
	"strings"
	"time"
)

// Source is the CloudEvent source of everything this service publishes.
const Source = "service-booking"

// DefaultTopic carries every entity change event.
const DefaultTopic = "eventsystem.changes"

const (
	VenueCreated = "venue.created"
	VenueUpdated = "venue.updated"
	VenueDeleted = "venue.deleted"

	EventCreated = "event.created"
	EventUpdated = "event.updated"
	EventDeleted = "event.deleted"

	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// EntityChangedEvent is the payload of every change event.
type EntityChangedEvent struct {
	Entity     string    `json:"entity"`
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntityChanged builds the payload for an event type such as "booking.created".
func NewEntityChanged(eventType string, id int64) EntityChangedEvent {
	entity, action, _ := strings.Cut(eventType, ".")
	return EntityChangedEvent{
		Entity:     entity,
		ID:         id,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

// Subject is the partition key; all events of one entity stay in order.
func (e EntityChangedEvent) Subject() string {
	return fmt.Sprintf("%s/%d", e.Entity, e.ID)
}

// AffectsBookingView reports whether an event type can change booking_view rows.
// Every entity feeds the view, so only unknown types are ignored.
func AffectsBookingView(eventType string) bool {
	switch eventType {
	case VenueCreated, VenueUpdated, VenueDeleted,
		EventCreated, EventUpdated, EventDeleted,
		BookingCreated, BookingUpdated, BookingDeleted:
		return true
	default:
		return false
	}
}
