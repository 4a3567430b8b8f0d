package event

import (
	"strings"
	"time"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/calendar"
	"github.com/eventsystem/service-booking/internal/platform/validation"
)

// Spec carries the user-supplied fields of an event.
type Spec struct {
	Name        string    `json:"event_name" validate:"required,max=100" label:"Event name"`
	Date        time.Time `json:"event_date" validate:"required" label:"Event date"`
	Description string    `json:"description" validate:"required,max=500" label:"Description"`
}

// Normalize trims surrounding whitespace from the text fields, so blank input
// counts as missing.
func (s Spec) Normalize() Spec {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	return s
}

// Validate checks the field constraints of the normalized input.
func (s Spec) Validate() *apperr.Error {
	return validation.Struct(s.Normalize())
}

// Event is something that happens on a date and can be booked into a venue.
type Event struct {
	id          int64
	name        string
	date        time.Time
	description string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewEvent creates an unsaved event.
func NewEvent(spec Spec) (*Event, error) {
	spec = spec.Normalize()
	if verr := spec.Validate(); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	return &Event{
		name:        spec.Name,
		date:        calendar.DateOf(spec.Date),
		description: spec.Description,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Event from persistence data (no validation).
func Reconstruct(
	id int64,
	name string,
	date time.Time,
	description string,
	version int64,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:          id,
		name:        name,
		date:        calendar.DateOf(date),
		description: description,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *Event) ID() int64            { return e.id }
func (e *Event) Name() string         { return e.name }
func (e *Event) Date() time.Time      { return e.date }
func (e *Event) Description() string  { return e.description }
func (e *Event) Version() int64       { return e.version }
func (e *Event) CreatedAt() time.Time { return e.createdAt }
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }

// AssignID records the identity handed out by the store on insert.
func (e *Event) AssignID(id int64) {
	e.id = id
}

// Update replaces every user-supplied field.
func (e *Event) Update(spec Spec) error {
	spec = spec.Normalize()
	if verr := spec.Validate(); verr != nil {
		return verr
	}
	e.name = spec.Name
	e.date = calendar.DateOf(spec.Date)
	e.description = spec.Description
	e.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (e *Event) IncrementVersion() {
	e.version++
	e.updatedAt = time.Now().UTC()
}
