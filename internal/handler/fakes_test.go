package handler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/application"
	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	eventDomain "github.com/eventsystem/service-booking/internal/domain/event"
	venueDomain "github.com/eventsystem/service-booking/internal/domain/venue"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// memDB is an in-memory stand-in for the three tables, shared by the fake
// repositories so references and the view can be resolved.
type memDB struct {
	mu       sync.Mutex
	nextID   int64
	venues   map[int64]*venueDomain.Venue
	events   map[int64]*eventDomain.Event
	bookings map[int64]*bookingDomain.Booking
}

func newMemDB() *memDB {
	return &memDB{
		venues:   make(map[int64]*venueDomain.Venue),
		events:   make(map[int64]*eventDomain.Event),
		bookings: make(map[int64]*bookingDomain.Booking),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memVenues struct{ db *memDB }

func (r memVenues) FindByID(_ context.Context, id int64) (*venueDomain.Venue, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.venues[id]; ok {
		return v, nil
	}
	return nil, apperr.NewNotFoundError("venue", strconv.FormatInt(id, 10))
}

func (r memVenues) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.venues[id]
	return ok, nil
}

func (r memVenues) ExistsByName(_ context.Context, name string, excludingID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, v := range r.db.venues {
		if id != excludingID && v.Name() == name {
			return true, nil
		}
	}
	return false, nil
}

func (r memVenues) List(_ context.Context, page, limit int) ([]*venueDomain.Venue, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []*venueDomain.Venue
	for _, v := range r.db.venues {
		all = append(all, v)
	}
	slices.SortFunc(all, func(a, b *venueDomain.Venue) int { return strings.Compare(a.Name(), b.Name()) })
	return window(all, page, limit), int64(len(all)), nil
}

func (r memVenues) Save(_ context.Context, v *venueDomain.Venue) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v.AssignID(r.db.id())
	r.db.venues[v.ID()] = v
	return nil
}

func (r memVenues) Update(_ context.Context, v *venueDomain.Venue) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.venues[v.ID()] = v
	return nil
}

func (r memVenues) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.venues, id)
	return nil
}

type memEvents struct{ db *memDB }

func (r memEvents) FindByID(_ context.Context, id int64) (*eventDomain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e, ok := r.db.events[id]; ok {
		return e, nil
	}
	return nil, apperr.NewNotFoundError("event", strconv.FormatInt(id, 10))
}

func (r memEvents) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.events[id]
	return ok, nil
}

func (r memEvents) List(_ context.Context, page, limit int) ([]*eventDomain.Event, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []*eventDomain.Event
	for _, e := range r.db.events {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b *eventDomain.Event) int { return a.Date().Compare(b.Date()) })
	return window(all, page, limit), int64(len(all)), nil
}

func (r memEvents) Save(_ context.Context, e *eventDomain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.AssignID(r.db.id())
	r.db.events[e.ID()] = e
	return nil
}

func (r memEvents) Update(_ context.Context, e *eventDomain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.events[e.ID()] = e
	return nil
}

func (r memEvents) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.events, id)
	return nil
}

type memBookings struct{ db *memDB }

func (r memBookings) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if b, ok := r.db.bookings[id]; ok {
		return b, nil
	}
	return nil, apperr.NewNotFoundError("booking", strconv.FormatInt(id, 10))
}

func (r memBookings) ListByVenue(_ context.Context, venueID int64) ([]*bookingDomain.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.db.bookings {
		if b.VenueID() == venueID {
			// copies, so a rescheduled candidate is compared with what is stored
			out = append(out, bookingDomain.ReconstructBooking(b.ID(), b.VenueID(), b.EventID(), b.BookingDate(), b.Version(), b.CreatedAt(), b.UpdatedAt()))
		}
	}
	return out, nil
}

func (r memBookings) ExistsByVenue(_ context.Context, venueID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.VenueID() == venueID {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) ExistsByEvent(_ context.Context, eventID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.EventID() == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.AssignID(r.db.id())
	r.db.bookings[b.ID()] = b
	return nil
}

func (r memBookings) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.bookings[b.ID()] = b
	return nil
}

func (r memBookings) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.bookings[id]; !ok {
		return apperr.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}
	delete(r.db.bookings, id)
	return nil
}

func (r memBookings) CountByVenue(_ context.Context) ([]bookingDomain.VenueCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	counts := make(map[int64]int64)
	for _, b := range r.db.bookings {
		counts[b.VenueID()]++
	}
	var out []bookingDomain.VenueCount
	for id, n := range counts {
		out = append(out, bookingDomain.VenueCount{VenueID: id, VenueName: r.db.venues[id].Name(), Bookings: n})
	}
	return out, nil
}

type memViews struct{ db *memDB }

func (r memViews) Search(_ context.Context, term string, page, limit int) ([]bookingDomain.View, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	term = strings.ToLower(term)
	var rows []bookingDomain.View
	for _, b := range r.db.bookings {
		v, e := r.db.venues[b.VenueID()], r.db.events[b.EventID()]
		if term != "" &&
			!strings.Contains(strings.ToLower(v.Name()), term) &&
			!strings.Contains(strings.ToLower(e.Name()), term) &&
			!strings.Contains(strconv.FormatInt(b.ID(), 10), term) {
			continue
		}
		rows = append(rows, bookingDomain.View{
			BookingID:   b.ID(),
			VenueName:   v.Name(),
			Location:    v.Location(),
			EventName:   e.Name(),
			EventDate:   e.Date(),
			BookingDate: b.BookingDate(),
		})
	}
	slices.SortFunc(rows, func(a, b bookingDomain.View) int { return b.BookingDate.Compare(a.BookingDate) })
	return window(rows, page, limit), int64(len(rows)), nil
}

func (r memViews) FindDetails(_ context.Context, id int64) (*bookingDomain.Details, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.bookings[id]
	if !ok {
		return nil, apperr.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}
	v, e := r.db.venues[b.VenueID()], r.db.events[b.EventID()]
	return &bookingDomain.Details{Booking: b, VenueName: v.Name(), Location: v.Location(), EventName: e.Name(), EventDate: e.Date()}, nil
}

// memStore records uploaded objects. Set fail to simulate an unreachable store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (s *memStore) Put(_ context.Context, name string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("connection refused")
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[name] = data
	return nil
}

func (s *memStore) SignedURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("http://media.test/venuepic/%s?X-Amz-Expires=%d", name, int(ttl.Seconds())), nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func window[T any](all []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(all) {
		return nil
	}
	return all[start:min(start+limit, len(all))]
}

type testApp struct {
	db     *memDB
	store  *memStore
	router *gin.Engine
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	db := newMemDB()
	store := &memStore{}

	bookings := memBookings{db}
	guard := bookingDomain.NewGuard(bookings)
	notifier := application.NewChangeNotifier(nil, nil, "", log)

	venueSvc := application.NewVenueService(memVenues{db}, guard, application.NewMediaService(store, log), notifier, log)
	eventSvc := application.NewEventService(memEvents{db}, guard, notifier, log)
	bookingSvc := application.NewBookingService(bookings, memViews{db}, memVenues{db}, memEvents{db}, nil, notifier, log)

	router := gin.New()
	api := router.Group("")
	NewVenueHandler(venueSvc).RegisterRoutes(api)
	NewEventHandler(eventSvc).RegisterRoutes(api)
	NewBookingHandler(bookingSvc).RegisterRoutes(api)
	NewAdminBookingHandler(bookingSvc).RegisterRoutes(api)

	return &testApp{db: db, store: store, router: router}
}

func (a *testApp) seedVenue(name string) int64 {
	v, err := venueDomain.NewVenue(venueDomain.Spec{Name: name, Location: "Jakarta", Capacity: 100}, "seed.png", "http://media.test/seed.png")
	if err != nil {
		panic(err)
	}
	_ = memVenues{a.db}.Save(context.Background(), v)
	return v.ID()
}

func (a *testApp) seedEvent(name string, date time.Time) int64 {
	e, err := eventDomain.NewEvent(eventDomain.Spec{Name: name, Date: date, Description: "seeded"})
	if err != nil {
		panic(err)
	}
	_ = memEvents{a.db}.Save(context.Background(), e)
	return e.ID()
}

func (a *testApp) seedBooking(venueID, eventID int64, date time.Time) int64 {
	b, err := bookingDomain.NewBooking(bookingDomain.Spec{VenueID: venueID, EventID: eventID, BookingDate: date})
	if err != nil {
		panic(err)
	}
	_ = memBookings{a.db}.Save(context.Background(), b)
	return b.ID()
}
