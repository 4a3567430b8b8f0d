package venue

import (
	"strings"
	"time"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/validation"
)

// MsgDuplicateName is the field message for a venue name already in use.
const MsgDuplicateName = "A venue with this name already exists."

// MsgImageRequired is the field message for a venue created without an image.
const MsgImageRequired = "An image is required."

// Spec carries the user-supplied fields of a venue.
type Spec struct {
	Name     string `json:"venue_name" validate:"required,max=100" label:"Venue name"`
	Location string `json:"location" validate:"required,max=200" label:"Location"`
	Capacity int    `json:"capacity" validate:"gt=0" label:"Capacity"`
}

// Normalize trims surrounding whitespace from the text fields.
func (s Spec) Normalize() Spec {
	s.Name = strings.TrimSpace(s.Name)
	s.Location = strings.TrimSpace(s.Location)
	return s
}

// Validate reports every violated field rule of s after normalization.
func (s Spec) Validate() *apperr.Error {
	return validation.Struct(s.Normalize())
}

// Venue is a place that can be booked for events.
type Venue struct {
	id       int64
	name     string
	location string
	capacity int
	imageKey string
	imageURL string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewVenue creates an unsaved venue. imageKey names the stored image object and
// imageURL is the retrieval URL minted for it; both are required.
func NewVenue(spec Spec, imageKey, imageURL string) (*Venue, error) {
	spec = spec.Normalize()
	verr := spec.Validate()
	if imageKey == "" || imageURL == "" {
		verr = apperr.Merge(verr, apperr.NewValidationError("image_url", MsgImageRequired))
	}
	if verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	return &Venue{
		name:      spec.Name,
		location:  spec.Location,
		capacity:  spec.Capacity,
		imageKey:  imageKey,
		imageURL:  imageURL,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Venue from persistence data (no validation).
func Reconstruct(
	id int64,
	name, location string,
	capacity int,
	imageKey, imageURL string,
	version int64,
	createdAt, updatedAt time.Time,
) *Venue {
	return &Venue{
		id:        id,
		name:      name,
		location:  location,
		capacity:  capacity,
		imageKey:  imageKey,
		imageURL:  imageURL,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (v *Venue) ID() int64            { return v.id }
func (v *Venue) Name() string         { return v.name }
func (v *Venue) Location() string     { return v.location }
func (v *Venue) Capacity() int        { return v.capacity }
func (v *Venue) ImageKey() string     { return v.imageKey }
func (v *Venue) ImageURL() string     { return v.imageURL }
func (v *Venue) Version() int64       { return v.version }
func (v *Venue) CreatedAt() time.Time { return v.createdAt }
func (v *Venue) UpdatedAt() time.Time { return v.updatedAt }

// --- Behavior ---

// AssignID records the identity handed out by the store on insert.
func (v *Venue) AssignID(id int64) {
	v.id = id
}

// Update replaces the descriptive fields. The image is left untouched.
func (v *Venue) Update(spec Spec) error {
	spec = spec.Normalize()
	if verr := spec.Validate(); verr != nil {
		return verr
	}
	v.name = spec.Name
	v.location = spec.Location
	v.capacity = spec.Capacity
	v.updatedAt = time.Now().UTC()
	return nil
}

// ReplaceImage points the venue at a newly stored image.
func (v *Venue) ReplaceImage(imageKey, imageURL string) {
	v.imageKey = imageKey
	v.imageURL = imageURL
	v.updatedAt = time.Now().UTC()
}

// RefreshImageURL swaps in a freshly signed URL for the same object. It does
// not mark the venue as modified.
func (v *Venue) RefreshImageURL(imageURL string) {
	v.imageURL = imageURL
}

// IncrementVersion bumps the version for optimistic locking.
func (v *Venue) IncrementVersion() {
	v.version++
	v.updatedAt = time.Now().UTC()
}
