package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	eventDomain "github.com/eventsystem/service-booking/internal/domain/event"
	venueDomain "github.com/eventsystem/service-booking/internal/domain/venue"
	"github.com/eventsystem/service-booking/internal/platform/kafka"
)

// MockVenueRepository is a mock implementation of venue.Repository
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) FindByID(ctx context.Context, id int64) (*venueDomain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venueDomain.Venue), args.Error(1)
}

func (m *MockVenueRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVenueRepository) ExistsByName(ctx context.Context, name string, excludingID int64) (bool, error) {
	args := m.Called(ctx, name, excludingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVenueRepository) List(ctx context.Context, page, limit int) ([]*venueDomain.Venue, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*venueDomain.Venue), args.Get(1).(int64), args.Error(2)
}

func (m *MockVenueRepository) Save(ctx context.Context, v *venueDomain.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) Update(ctx context.Context, v *venueDomain.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByID(ctx context.Context, id int64) (*eventDomain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

func (m *MockEventRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, page, limit int) ([]*eventDomain.Event, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*eventDomain.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) Save(ctx context.Context, e *eventDomain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, e *eventDomain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookingRepository is a mock implementation of booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByVenue(ctx context.Context, venueID int64) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ExistsByVenue(ctx context.Context, venueID int64) (bool, error) {
	args := m.Called(ctx, venueID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ExistsByEvent(ctx context.Context, eventID int64) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) CountByVenue(ctx context.Context) ([]bookingDomain.VenueCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.VenueCount), args.Error(1)
}

// MockBookingViewRepository is a mock implementation of booking.ViewRepository
type MockBookingViewRepository struct {
	mock.Mock
}

func (m *MockBookingViewRepository) Search(ctx context.Context, term string, page, limit int) ([]bookingDomain.View, int64, error) {
	args := m.Called(ctx, term, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]bookingDomain.View), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingViewRepository) FindDetails(ctx context.Context, id int64) (*bookingDomain.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Details), args.Error(1)
}

// MockStore is a mock implementation of media.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	args := m.Called(ctx, name, data, contentType)
	return args.Error(0)
}

func (m *MockStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, name, ttl)
	return args.String(0), args.Error(1)
}

// MockPublisher is a mock implementation of EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

// MockViewCache is a mock implementation of ViewCache
type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) Generation(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockViewCache) Get(ctx context.Context, generation string, dest interface{}, parts ...string) (bool, error) {
	args := m.Called(ctx, generation, dest, parts)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewCache) Set(ctx context.Context, generation string, value interface{}, parts ...string) error {
	args := m.Called(ctx, generation, value, parts)
	return args.Error(0)
}

func (m *MockViewCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
