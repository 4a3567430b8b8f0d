package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eventsystem/service-booking/internal/domain/booking"
	eventDomain "github.com/eventsystem/service-booking/internal/domain/event"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// EventModel is the GORM model for the events table.
type EventModel struct {
	ID          int64     `gorm:"primaryKey"`
	EventName   string    `gorm:"column:event_name;type:varchar(100);not null"`
	EventDate   time.Time `gorm:"column:event_date;type:date;not null"`
	Description string    `gorm:"type:varchar(500);not null"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (EventModel) TableName() string { return "events" }

// GormEventRepository implements event.Repository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) FindByID(ctx context.Context, id int64) (*eventDomain.Event, error) {
	var model EventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Event", id)
		}
		return nil, storageFault("failed to find event", err)
	}
	return toEventDomain(&model), nil
}

func (r *GormEventRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.WithContext(ctx).Model(&EventModel{}).
		Select("count(*) > 0").
		Where("id = ?", id).
		Find(&exists).Error; err != nil {
		return false, storageFault("failed to check event", err)
	}
	return exists, nil
}

func (r *GormEventRepository) List(ctx context.Context, page, limit int) ([]*eventDomain.Event, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&EventModel{}).Count(&total).Error; err != nil {
		return nil, 0, storageFault("failed to count events", err)
	}

	var models []EventModel
	if err := r.db.WithContext(ctx).
		Order("event_date ASC, id ASC").
		Offset(paging.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, storageFault("failed to list events", err)
	}

	events := make([]*eventDomain.Event, len(models))
	for i := range models {
		events[i] = toEventDomain(&models[i])
	}
	return events, total, nil
}

func (r *GormEventRepository) Save(ctx context.Context, e *eventDomain.Event) error {
	model := toEventModel(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return storageFault("failed to save event", err)
	}
	e.AssignID(model.ID)
	return nil
}

func (r *GormEventRepository) Update(ctx context.Context, e *eventDomain.Event) error {
	model := toEventModel(e)
	previousVersion := e.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&EventModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]interface{}{
			"event_name":  model.EventName,
			"event_date":  model.EventDate,
			"description": model.Description,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return storageFault("failed to update event", result.Error)
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(ctx, r.db, &EventModel{}, "Event", model.ID)
	}
	return nil
}

func (r *GormEventRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&EventModel{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return apperr.NewDependencyError(booking.MsgEventHasBookings).WithCause(result.Error)
		}
		return storageFault("failed to delete event", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Event", id)
	}
	return nil
}

// --- Conversions ---

func toEventModel(e *eventDomain.Event) *EventModel {
	return &EventModel{
		ID:          e.ID(),
		EventName:   e.Name(),
		EventDate:   e.Date(),
		Description: e.Description(),
		Version:     e.Version(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func toEventDomain(m *EventModel) *eventDomain.Event {
	return eventDomain.Reconstruct(
		m.ID,
		m.EventName,
		m.EventDate,
		m.Description,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
