package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eventsystem/service-booking/internal/domain/booking"
	venueDomain "github.com/eventsystem/service-booking/internal/domain/venue"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// VenueModel is the GORM model for the venues table.
type VenueModel struct {
	ID        int64     `gorm:"primaryKey"`
	VenueName string    `gorm:"column:venue_name;type:varchar(100);not null;uniqueIndex:idx_venues_venue_name"`
	Location  string    `gorm:"type:varchar(200);not null"`
	Capacity  int       `gorm:"not null;check:capacity > 0"`
	ImageURL  string    `gorm:"column:image_url;type:text;not null"`
	ImageKey  string    `gorm:"column:image_key;type:varchar(255);not null;default:''"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (VenueModel) TableName() string { return "venues" }

// GormVenueRepository implements venue.Repository using GORM.
type GormVenueRepository struct {
	db *gorm.DB
}

func NewGormVenueRepository(db *gorm.DB) *GormVenueRepository {
	return &GormVenueRepository{db: db}
}

func (r *GormVenueRepository) FindByID(ctx context.Context, id int64) (*venueDomain.Venue, error) {
	var model VenueModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Venue", id)
		}
		return nil, storageFault("failed to find venue", err)
	}
	return toVenueDomain(&model), nil
}

func (r *GormVenueRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.WithContext(ctx).Model(&VenueModel{}).
		Select("count(*) > 0").
		Where("id = ?", id).
		Find(&exists).Error; err != nil {
		return false, storageFault("failed to check venue", err)
	}
	return exists, nil
}

// ExistsByName compares names byte for byte, so "Hall A" and "hall a" are different venues.
func (r *GormVenueRepository) ExistsByName(ctx context.Context, name string, excludingID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&VenueModel{}).
		Select("count(*) > 0").
		Where("venue_name = ?", name)
	if excludingID != 0 {
		q = q.Where("id <> ?", excludingID)
	}

	var exists bool
	if err := q.Find(&exists).Error; err != nil {
		return false, storageFault("failed to check venue name", err)
	}
	return exists, nil
}

func (r *GormVenueRepository) List(ctx context.Context, page, limit int) ([]*venueDomain.Venue, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&VenueModel{}).Count(&total).Error; err != nil {
		return nil, 0, storageFault("failed to count venues", err)
	}

	var models []VenueModel
	if err := r.db.WithContext(ctx).
		Order("venue_name ASC, id ASC").
		Offset(paging.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, storageFault("failed to list venues", err)
	}

	venues := make([]*venueDomain.Venue, len(models))
	for i := range models {
		venues[i] = toVenueDomain(&models[i])
	}
	return venues, total, nil
}

func (r *GormVenueRepository) Save(ctx context.Context, v *venueDomain.Venue) error {
	model := toVenueModel(v)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return venueWriteError("failed to save venue", err)
	}
	v.AssignID(model.ID)
	return nil
}

// Update persists changes with optimistic locking (expects IncrementVersion to have been called).
func (r *GormVenueRepository) Update(ctx context.Context, v *venueDomain.Venue) error {
	model := toVenueModel(v)
	previousVersion := v.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&VenueModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]interface{}{
			"venue_name": model.VenueName,
			"location":   model.Location,
			"capacity":   model.Capacity,
			"image_url":  model.ImageURL,
			"image_key":  model.ImageKey,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return venueWriteError("failed to update venue", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(ctx, r.db, &VenueModel{}, "Venue", model.ID)
	}
	return nil
}

func (r *GormVenueRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VenueModel{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return apperr.NewDependencyError(booking.MsgVenueHasBookings).WithCause(result.Error)
		}
		return storageFault("failed to delete venue", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Venue", id)
	}
	return nil
}

func venueWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.NewValidationError("venue_name", venueDomain.MsgDuplicateName).WithCause(err)
	}
	return storageFault(op, err)
}

// --- Conversions ---

func toVenueModel(v *venueDomain.Venue) *VenueModel {
	return &VenueModel{
		ID:        v.ID(),
		VenueName: v.Name(),
		Location:  v.Location(),
		Capacity:  v.Capacity(),
		ImageURL:  v.ImageURL(),
		ImageKey:  v.ImageKey(),
		Version:   v.Version(),
		CreatedAt: v.CreatedAt(),
		UpdatedAt: v.UpdatedAt(),
	}
}

func toVenueDomain(m *VenueModel) *venueDomain.Venue {
	return venueDomain.Reconstruct(
		m.ID,
		m.VenueName, m.Location,
		m.Capacity,
		m.ImageKey, m.ImageURL,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
