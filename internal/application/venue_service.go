package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	"github.com/eventsystem/service-booking/internal/domain/media"
	venueDomain "github.com/eventsystem/service-booking/internal/domain/venue"
	"github.com/eventsystem/service-booking/internal/events"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// VenueRequest holds the form fields of a venue create or update.
type VenueRequest struct {
	VenueName string `form:"venue_name" json:"venue_name"`
	Location  string `form:"location" json:"location"`
	Capacity  int    `form:"capacity" json:"capacity"`
}

func (r VenueRequest) spec() venueDomain.Spec {
	return venueDomain.Spec{Name: r.VenueName, Location: r.Location, Capacity: r.Capacity}.Normalize()
}

// VenueDTO is the API response representation of a venue.
type VenueDTO struct {
	ID        int64     `json:"id"`
	VenueName string    `json:"venue_name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	ImageURL  string    `json:"image_url"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VenueService handles venue use cases.
type VenueService struct {
	repo     venueDomain.Repository
	guard    *bookingDomain.Guard
	media    *MediaService
	notifier *ChangeNotifier
	logger   *zap.Logger
}

// NewVenueService creates a new VenueService.
func NewVenueService(
	repo venueDomain.Repository,
	guard *bookingDomain.Guard,
	mediaService *MediaService,
	notifier *ChangeNotifier,
	logger *zap.Logger,
) *VenueService {
	return &VenueService{
		repo:     repo,
		guard:    guard,
		media:    mediaService,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateVenue validates the fields and the image, uploads the image and
// stores the venue. The image is only uploaded once every field is valid.
func (s *VenueService) CreateVenue(ctx context.Context, req VenueRequest, image *ImageUpload) (*VenueDTO, error) {
	spec := req.spec()
	verr, err := s.checkFields(ctx, spec, 0)
	if err != nil {
		return nil, err
	}
	if verr = apperr.Merge(verr, checkImage(image, true)); verr != nil {
		return nil, verr
	}

	key, url, err := s.media.IngestAndSign(ctx, *image)
	if err != nil {
		return nil, err
	}

	v, err := venueDomain.NewVenue(spec, key, url)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("venue created", zap.Int64("venue_id", v.ID()), zap.String("venue_name", v.Name()))
	s.notifier.Notify(ctx, events.VenueCreated, v.ID())

	return toVenueDTO(v), nil
}

// GetVenue returns a venue with a freshly signed image URL.
func (s *VenueService) GetVenue(ctx context.Context, id int64) (*VenueDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshImageURL(ctx, v)
	return toVenueDTO(v), nil
}

// ListVenues returns a page of venues.
func (s *VenueService) ListVenues(ctx context.Context, page, limit int) (*paging.PaginatedResult[VenueDTO], error) {
	page, limit = paging.Normalize(page, limit)
	venues, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]VenueDTO, len(venues))
	for i, v := range venues {
		s.refreshImageURL(ctx, v)
		dtos[i] = *toVenueDTO(v)
	}

	result := paging.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateVenue replaces the venue fields. A new image is optional; when given it
// replaces the stored one.
func (s *VenueService) UpdateVenue(ctx context.Context, id int64, req VenueRequest, image *ImageUpload) (*VenueDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	spec := req.spec()
	verr, err := s.checkFields(ctx, spec, id)
	if err != nil {
		return nil, err
	}
	if verr = apperr.Merge(verr, checkImage(image, false)); verr != nil {
		return nil, verr
	}

	if image != nil {
		key, url, err := s.media.IngestAndSign(ctx, *image)
		if err != nil {
			return nil, err
		}
		v.ReplaceImage(key, url)
	}

	if err := v.Update(spec); err != nil {
		return nil, err
	}
	v.IncrementVersion()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("venue updated", zap.Int64("venue_id", v.ID()), zap.Int64("version", v.Version()))
	s.notifier.Notify(ctx, events.VenueUpdated, v.ID())

	s.refreshImageURL(ctx, v)
	return toVenueDTO(v), nil
}

// DeleteVenue removes a venue that no booking references.
func (s *VenueService) DeleteVenue(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	ok, err := s.guard.CanDeleteVenue(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("venue delete blocked by bookings", zap.Int64("venue_id", id))
		return apperr.NewDependencyError(bookingDomain.MsgVenueHasBookings)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("venue deleted", zap.Int64("venue_id", id))
	s.notifier.Notify(ctx, events.VenueDeleted, id)
	return nil
}

// checkFields returns field errors (first value) separately from storage
// failures (second value).
func (s *VenueService) checkFields(ctx context.Context, spec venueDomain.Spec, excludingID int64) (*apperr.Error, error) {
	verr := spec.Validate()
	if spec.Name == "" {
		return verr, nil
	}

	taken, err := s.repo.ExistsByName(ctx, spec.Name, excludingID)
	if err != nil {
		return nil, err
	}
	if taken {
		verr = apperr.Merge(verr, apperr.NewValidationError("venue_name", venueDomain.MsgDuplicateName))
	}
	return verr, nil
}

// refreshImageURL re-signs the stored image. Signed URLs expire after
// media.URLTTL, so the persisted one is usually stale. On failure the stored
// URL is kept.
func (s *VenueService) refreshImageURL(ctx context.Context, v *venueDomain.Venue) {
	if v.ImageKey() == "" {
		return
	}
	url, err := s.media.SignedURL(ctx, media.StoredImageRef{Name: v.ImageKey()})
	if err != nil {
		s.logger.Warn("failed to re-sign venue image",
			zap.Int64("venue_id", v.ID()),
			zap.Error(err),
		)
		return
	}
	v.RefreshImageURL(url)
}

func toVenueDTO(v *venueDomain.Venue) *VenueDTO {
	return &VenueDTO{
		ID:        v.ID(),
		VenueName: v.Name(),
		Location:  v.Location(),
		Capacity:  v.Capacity(),
		ImageURL:  v.ImageURL(),
		Version:   v.Version(),
		CreatedAt: v.CreatedAt(),
		UpdatedAt: v.UpdatedAt(),
	}
}
