package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	eventDomain "github.com/eventsystem/service-booking/internal/domain/event"
	"github.com/eventsystem/service-booking/internal/events"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/calendar"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// EventRequest holds the fields of an event create or update.
type EventRequest struct {
	EventName   string `json:"event_name"`
	EventDate   string `json:"event_date"`
	Description string `json:"description"`
}

// EventDTO is the API response representation of an event.
type EventDTO struct {
	ID          int64     `json:"id"`
	EventName   string    `json:"event_name"`
	EventDate   string    `json:"event_date"`
	Description string    `json:"description"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventService handles event use cases.
type EventService struct {
	repo     eventDomain.Repository
	guard    *bookingDomain.Guard
	notifier *ChangeNotifier
	logger   *zap.Logger
}

// NewEventService creates a new EventService.
func NewEventService(
	repo eventDomain.Repository,
	guard *bookingDomain.Guard,
	notifier *ChangeNotifier,
	logger *zap.Logger,
) *EventService {
	return &EventService{repo: repo, guard: guard, notifier: notifier, logger: logger}
}

// CreateEvent validates and stores a new event.
func (s *EventService) CreateEvent(ctx context.Context, req EventRequest) (*EventDTO, error) {
	spec, verr := req.spec()
	if verr != nil {
		return nil, verr
	}

	e, err := eventDomain.NewEvent(spec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("event created", zap.Int64("event_id", e.ID()), zap.String("event_name", e.Name()))
	s.notifier.Notify(ctx, events.EventCreated, e.ID())

	return toEventDTO(e), nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(ctx context.Context, id int64) (*EventDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEventDTO(e), nil
}

// ListEvents returns a page of events ordered by date.
func (s *EventService) ListEvents(ctx context.Context, page, limit int) (*paging.PaginatedResult[EventDTO], error) {
	page, limit = paging.Normalize(page, limit)
	list, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]EventDTO, len(list))
	for i, e := range list {
		dtos[i] = *toEventDTO(e)
	}

	result := paging.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateEvent replaces every field of an event.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, req EventRequest) (*EventDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	spec, verr := req.spec()
	if verr != nil {
		return nil, verr
	}
	if err := e.Update(spec); err != nil {
		return nil, err
	}
	e.IncrementVersion()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", zap.Int64("event_id", e.ID()), zap.Int64("version", e.Version()))
	s.notifier.Notify(ctx, events.EventUpdated, e.ID())

	return toEventDTO(e), nil
}

// DeleteEvent removes an event that no booking references.
func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	ok, err := s.guard.CanDeleteEvent(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("event delete blocked by bookings", zap.Int64("event_id", id))
		return apperr.NewDependencyError(bookingDomain.MsgEventHasBookings)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("event deleted", zap.Int64("event_id", id))
	s.notifier.Notify(ctx, events.EventDeleted, id)
	return nil
}

// spec parses the date and validates every field, reporting all problems at once.
func (r EventRequest) spec() (eventDomain.Spec, *apperr.Error) {
	spec := eventDomain.Spec{Name: r.EventName, Description: r.Description}.Normalize()

	var dateErr *apperr.Error
	if r.EventDate != "" {
		d, err := calendar.Parse(r.EventDate)
		if err != nil {
			dateErr = apperr.NewValidationError("event_date", "Event date must be a valid date (YYYY-MM-DD).")
		}
		spec.Date = d
	}

	// Merge keeps the first message per field, so a malformed date is not
	// reported as missing.
	if verr := apperr.Merge(dateErr, spec.Validate()); verr != nil {
		return eventDomain.Spec{}, verr
	}
	return spec, nil
}

func toEventDTO(e *eventDomain.Event) *EventDTO {
	return &EventDTO{
		ID:          e.ID(),
		EventName:   e.Name(),
		EventDate:   calendar.Format(e.Date()),
		Description: e.Description(),
		Version:     e.Version(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}
