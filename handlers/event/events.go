package event

import (
	"errors"
	"io"

	"github.com/campus-events/api/handlers"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/response"
	"github.com/campus-events/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EventHandler handles event catalog requests
type EventHandler struct {
	events    *services.EventService
	reports   *services.ReportService
	images    *services.ImageService
	validator *validation.Validator
}

// NewEventHandler creates a new event handler. images may have no store configured.
func NewEventHandler(db *gorm.DB, images *services.ImageService) *EventHandler {
	return &EventHandler{
		events:    services.NewEventService(db),
		reports:   services.NewReportService(db),
		images:    images,
		validator: validation.NewValidator(),
	}
}

func eventID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// ownedError reports a missing event as "not found or access denied" so a
// non-owner cannot tell whether the event exists
func ownedError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, services.ErrEventNotFound) {
		return response.NotFound(c, "Event not found or access denied")
	}
	return handlers.ServiceError(c, err, fallback)
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.events.ListActive(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch events")
	}
	return response.Success(c, events)
}

// GetEvent handles GET /api/events/:id
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, ok := eventID(c)
	if !ok {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.events.Get(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch event")
	}
	return response.Success(c, event)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.CreateEventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	req.EventType = validation.SanitizeString(req.EventType)
	req.Location = validation.SanitizeString(req.Location)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.events.Create(c.UserContext(), adminID, req)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create event")
	}

	middleware.SetAuditValues(c, event.ID, nil, event)
	return response.Created(c, "Event created successfully", event)
}

// UpdateEvent handles PUT /api/events/:id
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := eventID(c)
	if !ok {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req services.UpdateEventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	before, after, err := h.events.Update(c.UserContext(), adminID, id, req)
	if err != nil {
		return ownedError(c, err, "Failed to update event")
	}

	middleware.SetAuditValues(c, id, before, after)
	return response.SuccessWithMessage(c, "Event updated successfully", after)
}

// CancelEvent handles DELETE /api/events/:id. The event is kept with status cancelled.
func (h *EventHandler) CancelEvent(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := eventID(c)
	if !ok {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.events.Cancel(c.UserContext(), adminID, id)
	if err != nil {
		return ownedError(c, err, "Failed to cancel event")
	}

	middleware.SetAuditValues(c, id, fiber.Map{"status": "active"}, fiber.Map{"status": event.Status})
	return response.SuccessWithMessage(c, "Event cancelled successfully", event)
}

// UploadImage handles POST /api/events/:id/image (multipart field "image")
func (h *EventHandler) UploadImage(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := eventID(c)
	if !ok {
		return response.BadRequest(c, "Invalid event ID")
	}

	if !h.images.Enabled() {
		return handlers.ServiceError(c, services.ErrImageUploadDisabled, "")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}
	if file.Size > services.MaxImageSize {
		return handlers.ServiceError(c, services.ErrImageTooLarge, "")
	}

	src, err := file.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read image")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, services.MaxImageSize+1))
	if err != nil {
		return response.BadRequest(c, "Failed to read image")
	}

	before, after, err := h.images.Upload(c.UserContext(), adminID, id, data)
	if err != nil {
		return ownedError(c, err, "Failed to upload image")
	}

	middleware.SetAuditValues(c, id, fiber.Map{"image_url": before.ImageURL}, fiber.Map{"image_url": after.ImageURL})
	return response.SuccessWithMessage(c, "Image uploaded successfully", after)
}

// MyEvents handles GET /api/events/admin/my-events
func (h *EventHandler) MyEvents(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	events, err := h.events.ListByAdmin(c.UserContext(), adminID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch events")
	}
	return response.Success(c, events)
}

// Stats handles GET /api/events/admin/stats
func (h *EventHandler) Stats(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	stats, err := h.reports.AdminStats(c.UserContext(), adminID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to compute stats")
	}
	return response.Success(c, stats)
}
