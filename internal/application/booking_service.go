package application

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	eventDomain "github.com/eventsystem/service-booking/internal/domain/event"
	venueDomain "github.com/eventsystem/service-booking/internal/domain/venue"
	"github.com/eventsystem/service-booking/internal/events"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/calendar"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// BookingRequest holds the fields of a booking create or update.
type BookingRequest struct {
	VenueID     int64  `json:"venue_id"`
	EventID     int64  `json:"event_id"`
	BookingDate string `json:"booking_date"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          int64     `json:"id"`
	VenueID     int64     `json:"venue_id"`
	EventID     int64     `json:"event_id"`
	BookingDate string    `json:"booking_date"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookingDetailsDTO is a booking with the names of its venue and event.
type BookingDetailsDTO struct {
	BookingDTO
	VenueName string `json:"venue_name"`
	Location  string `json:"location"`
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
}

// BookingViewDTO is one row of the booking search.
type BookingViewDTO struct {
	BookingID   int64  `json:"booking_id"`
	VenueName   string `json:"venue_name"`
	Location    string `json:"location"`
	EventName   string `json:"event_name"`
	EventDate   string `json:"event_date"`
	BookingDate string `json:"booking_date"`
}

// VenueBookingCountDTO is the number of bookings held by one venue.
type VenueBookingCountDTO struct {
	VenueID   int64  `json:"venue_id"`
	VenueName string `json:"venue_name"`
	Bookings  int64  `json:"bookings"`
}

// BookingStatsDTO holds aggregate booking statistics.
type BookingStatsDTO struct {
	TotalBookings int64                  `json:"total_bookings"`
	ByVenue       []VenueBookingCountDTO `json:"by_venue"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.Repository
	views    bookingDomain.ViewRepository
	venues   venueDomain.Repository
	events   eventDomain.Repository
	policy   bookingDomain.Policy
	cache    ViewCache
	notifier *ChangeNotifier
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService. cache may be nil.
func NewBookingService(
	repo bookingDomain.Repository,
	views bookingDomain.ViewRepository,
	venues venueDomain.Repository,
	eventRepo eventDomain.Repository,
	cache ViewCache,
	notifier *ChangeNotifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		views:    views,
		venues:   venues,
		events:   eventRepo,
		policy:   bookingDomain.NewPolicy(),
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateBooking books a venue for an event on a date, unless the venue is
// already booked that day.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*BookingDTO, error) {
	spec, err := s.checkRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(spec)
	if err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, bk); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			s.logger.Info("booking lost race on venue date",
				zap.Int64("venue_id", bk.VenueID()),
				zap.Time("booking_date", bk.BookingDate()),
			)
		}
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("venue_id", bk.VenueID()),
		zap.Int64("event_id", bk.EventID()),
	)
	s.notifier.Notify(ctx, events.BookingCreated, bk.ID())

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking moves a booking to another venue, event or date. The conflict
// policy runs again; the booking never conflicts with itself.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, req BookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	spec, err := s.checkRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := bk.Reschedule(spec); err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking updated", zap.Int64("booking_id", bk.ID()), zap.Int64("version", bk.Version()))
	s.notifier.Notify(ctx, events.BookingUpdated, bk.ID())

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBooking removes a booking. Nothing depends on a booking, so there is no guard.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("booking deleted", zap.Int64("booking_id", id))
	s.notifier.Notify(ctx, events.BookingDeleted, id)
	return nil
}

// GetBooking retrieves a booking with its venue and event details.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*BookingDetailsDTO, error) {
	d, err := s.views.FindDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetailsDTO{
		BookingDTO: toBookingDTO(d.Booking),
		VenueName:  d.VenueName,
		Location:   d.Location,
		EventName:  d.EventName,
		EventDate:  formatDate(d.EventDate),
	}, nil
}

// SearchBookings pages through the booking read model. term matches event
// name, venue name or booking id case-insensitively. Pages are cached until
// the next write.
func (s *BookingService) SearchBookings(ctx context.Context, term string, page, limit int) (*paging.PaginatedResult[BookingViewDTO], error) {
	term = strings.TrimSpace(term)
	page, limit = paging.Normalize(page, limit)
	key := []string{term, strconv.Itoa(page), strconv.Itoa(limit)}

	// The generation is read before the query so that a write landing while
	// the query runs leaves this page in the superseded generation.
	var generation string
	useCache := s.cache != nil
	if useCache {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("booking view cache read failed", zap.Error(err))
			useCache = false
		} else {
			generation = gen
			var cached paging.PaginatedResult[BookingViewDTO]
			hit, err := s.cache.Get(ctx, generation, &cached, key...)
			if err != nil {
				s.logger.Warn("booking view cache read failed", zap.Error(err))
			} else if hit {
				return &cached, nil
			}
		}
	}

	views, total, err := s.views.Search(ctx, term, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingViewDTO, len(views))
	for i, v := range views {
		dtos[i] = toBookingViewDTO(v)
	}
	result := paging.NewPaginatedResult(dtos, total, page, limit)

	if useCache {
		if err := s.cache.Set(ctx, generation, result, key...); err != nil {
			s.logger.Warn("booking view cache write failed", zap.Error(err))
		}
	}
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByVenue(ctx)
	if err != nil {
		return nil, err
	}

	stats := &BookingStatsDTO{ByVenue: make([]VenueBookingCountDTO, len(counts))}
	for i, c := range counts {
		stats.TotalBookings += c.Bookings
		stats.ByVenue[i] = VenueBookingCountDTO{VenueID: c.VenueID, VenueName: c.VenueName, Bookings: c.Bookings}
	}
	return stats, nil
}

// checkRequest parses the request and reports field errors, including
// references to venues or events that do not exist.
func (s *BookingService) checkRequest(ctx context.Context, req BookingRequest) (bookingDomain.Spec, error) {
	spec := bookingDomain.Spec{VenueID: req.VenueID, EventID: req.EventID}

	var dateErr *apperr.Error
	if req.BookingDate != "" {
		d, err := calendar.Parse(req.BookingDate)
		if err != nil {
			dateErr = apperr.NewValidationError("booking_date", "Booking date must be a valid date (YYYY-MM-DD).")
		}
		spec.BookingDate = d
	}
	verr := apperr.Merge(dateErr, spec.Validate())

	if spec.VenueID != 0 {
		ok, err := s.venues.ExistsByID(ctx, spec.VenueID)
		if err != nil {
			return spec, err
		}
		if !ok {
			verr = apperr.Merge(verr, apperr.NewValidationError("venue_id", "The selected venue does not exist."))
		}
	}
	if spec.EventID != 0 {
		ok, err := s.events.ExistsByID(ctx, spec.EventID)
		if err != nil {
			return spec, err
		}
		if !ok {
			verr = apperr.Merge(verr, apperr.NewValidationError("event_id", "The selected event does not exist."))
		}
	}

	if verr != nil {
		return spec, verr
	}
	return spec, nil
}

// checkConflicts runs the policy against the venue's current bookings.
func (s *BookingService) checkConflicts(ctx context.Context, bk *bookingDomain.Booking) error {
	existing, err := s.repo.ListByVenue(ctx, bk.VenueID())
	if err != nil {
		return err
	}

	verdict := s.policy.Validate(bk, slices.Values(existing))
	if !verdict.Accepted {
		s.logger.Info("booking rejected",
			zap.Int64("booking_id", bk.ID()),
			zap.Int64("venue_id", bk.VenueID()),
			zap.String("booking_date", formatDate(bk.BookingDate())),
			zap.String("reason", verdict.Reason),
		)
		return verdict.Err()
	}
	return nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		VenueID:     bk.VenueID(),
		EventID:     bk.EventID(),
		BookingDate: formatDate(bk.BookingDate()),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toBookingViewDTO(v bookingDomain.View) BookingViewDTO {
	return BookingViewDTO{
		BookingID:   v.BookingID,
		VenueName:   v.VenueName,
		Location:    v.Location,
		EventName:   v.EventName,
		EventDate:   formatDate(v.EventDate),
		BookingDate: formatDate(v.BookingDate),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return calendar.Format(t)
}
