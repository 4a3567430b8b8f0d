package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventsystem/service-booking/internal/application"
	"github.com/eventsystem/service-booking/internal/platform/response"
)

// VenueHandler handles HTTP requests for venue operations.
type VenueHandler struct {
	service *application.VenueService
}

// NewVenueHandler creates a new VenueHandler.
func NewVenueHandler(service *application.VenueService) *VenueHandler {
	return &VenueHandler{service: service}
}

// RegisterRoutes registers all venue routes on the given router group.
func (h *VenueHandler) RegisterRoutes(r *gin.RouterGroup) {
	venues := r.Group("/api/v1/venues")
	{
		venues.POST("", h.CreateVenue)
		venues.GET("", h.ListVenues)
		venues.GET("/:id", h.GetVenue)
		venues.PUT("/:id", h.UpdateVenue)
		venues.DELETE("/:id", h.DeleteVenue)
	}
}

// CreateVenue handles POST /api/v1/venues (multipart form with an image part).
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	image, err := readImage(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart upload")
		return
	}

	result, err := h.service.CreateVenue(c.Request.Context(), venueForm(c), image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListVenues handles GET /api/v1/venues.
func (h *VenueHandler) ListVenues(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListVenues(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetVenue handles GET /api/v1/venues/:id.
func (h *VenueHandler) GetVenue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	result, err := h.service.GetVenue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateVenue handles PUT /api/v1/venues/:id. The image part is optional.
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	image, err := readImage(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart upload")
		return
	}

	result, err := h.service.UpdateVenue(c.Request.Context(), id, venueForm(c), image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteVenue handles DELETE /api/v1/venues/:id.
func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid venue ID")
		return
	}

	if err := h.service.DeleteVenue(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// venueForm reads the venue fields. A non-numeric capacity is left at zero and
// reported by validation together with every other field.
func venueForm(c *gin.Context) application.VenueRequest {
	capacity, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("capacity")))
	return application.VenueRequest{
		VenueName: strings.TrimSpace(c.PostForm("venue_name")),
		Location:  strings.TrimSpace(c.PostForm("location")),
		Capacity:  capacity,
	}
}
