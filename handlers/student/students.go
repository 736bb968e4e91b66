package student

import (
	"strings"
	"time"

	"github.com/campus-events/api/handlers"
	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils/middleware"
	"github.com/campus-events/api/utils/response"
	"github.com/campus-events/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentHandler handles registration ledger and profile requests for students
type StudentHandler struct {
	registrations *services.RegistrationService
	identity      *services.IdentityService
	validator     *validation.Validator
	now           func() time.Time
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		registrations: services.NewRegistrationService(db),
		identity:      services.NewIdentityService(db),
		validator:     validation.NewValidator(),
		now:           time.Now,
	}
}

// EventRequest names the event a ledger operation applies to
type EventRequest struct {
	EventID uint `json:"eventId" validate:"required,gt=0"`
}

// parseEventRequest reads the event id from the body. When ok is false the
// rejection has already been written to c.
func (h *StudentHandler) parseEventRequest(c *fiber.Ctx) (eventID uint, ok bool, err error) {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, false, response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return 0, false, response.ValidationError(c, err)
	}
	return req.EventID, true, nil
}

// RegisterEvent handles POST /api/students/register-event
func (h *StudentHandler) RegisterEvent(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, ok, err := h.parseEventRequest(c)
	if !ok {
		return err
	}

	registration, err := h.registrations.Register(c.UserContext(), eventID, studentID, h.now().UTC())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to register for event")
	}

	return response.Created(c, "Successfully registered for event", registration)
}

// CheckIn handles POST /api/students/check-in
func (h *StudentHandler) CheckIn(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, ok, err := h.parseEventRequest(c)
	if !ok {
		return err
	}

	registration, err := h.registrations.CheckIn(c.UserContext(), eventID, studentID, h.now().UTC())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to check in")
	}

	return response.SuccessWithMessage(c, "Checked in successfully", registration)
}

// CancelRegistration handles DELETE /api/students/cancel-registration/:eventId
func (h *StudentHandler) CancelRegistration(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	eventID, err := c.ParamsInt("eventId")
	if err != nil || eventID <= 0 {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.registrations.Cancel(c.UserContext(), uint(eventID), studentID); err != nil {
		return handlers.ServiceError(c, err, "Failed to cancel registration")
	}

	return response.SuccessWithMessage(c, "Registration cancelled successfully", nil)
}

// MyEvents handles GET /api/students/my-events
func (h *StudentHandler) MyEvents(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	registrations, err := h.registrations.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch registrations")
	}
	return response.Success(c, registrations)
}

// GetProfile handles GET /api/students/profile
func (h *StudentHandler) GetProfile(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	student, err := h.identity.GetStudent(c.UserContext(), studentID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch profile")
	}
	return response.Success(c, student)
}

// UpdateProfile handles PUT /api/students/profile
func (h *StudentHandler) UpdateProfile(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	student, err := h.identity.UpdateStudentProfile(c.UserContext(), studentID, req)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update profile")
	}
	return response.SuccessWithMessage(c, "Profile updated successfully", student)
}
