package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eventsystem/service-booking/internal/application"
	"github.com/eventsystem/service-booking/internal/platform/response"
)

// EventHandler handles HTTP requests for event operations.
type EventHandler struct {
	service *application.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service *application.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterRoutes registers all event routes on the given router group.
func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/api/v1/events")
	{
		events.POST("", h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.PUT("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
	}
}

// CreateEvent handles POST /api/v1/events.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req application.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListEvents handles GET /api/v1/events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListEvents(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetEvent handles GET /api/v1/events/:id.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	result, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateEvent handles PUT /api/v1/events/:id.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	var req application.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteEvent handles DELETE /api/v1/events/:id.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}
