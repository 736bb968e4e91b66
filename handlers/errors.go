package handlers

import (
	"errors"

	"github.com/campus-events/api/services"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Error codes for ledger conflicts
const (
	CodeEventFull             = "EVENT_FULL"
	CodeAlreadyRegistered     = "ALREADY_REGISTERED"
	CodeRegistrationClosed    = "REGISTRATION_CLOSED"
	CodeAlreadyCheckedIn      = "ALREADY_CHECKED_IN"
	CodeCheckInNotOpen        = "CHECK_IN_NOT_OPEN"
	CodeCannotCancelCheckedIn = "CANNOT_CANCEL_CHECKED_IN"
	CodeEventNotActive        = "EVENT_NOT_ACTIVE"
)

// ServiceError writes the response for an error returned by a service.
// Unknown errors are logged and reported as a generic 500 with fallback as message.
func ServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return response.NotFound(c, "Event not found")
	case errors.Is(err, services.ErrEventNotActive):
		return response.Error(c, fiber.StatusNotFound, "Event not found or not active", CodeEventNotActive)
	case errors.Is(err, services.ErrRegistrationClosed):
		return response.ConflictWithCode(c, "Registration deadline has passed", CodeRegistrationClosed)
	case errors.Is(err, services.ErrAlreadyRegistered):
		return response.ConflictWithCode(c, "Already registered for this event", CodeAlreadyRegistered)
	case errors.Is(err, services.ErrEventFull):
		return response.ConflictWithCode(c, "Event is full", CodeEventFull)
	case errors.Is(err, services.ErrNotRegistered):
		return response.NotFound(c, "Not registered for this event")
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		return response.ConflictWithCode(c, "Already checked in", CodeAlreadyCheckedIn)
	case errors.Is(err, services.ErrCheckInNotOpen):
		return response.ConflictWithCode(c, "Check-in not available yet", CodeCheckInNotOpen)
	case errors.Is(err, services.ErrCannotCancelCheckedIn):
		return response.ConflictWithCode(c, "Cannot cancel after check-in", CodeCannotCancelCheckedIn)
	case errors.Is(err, services.ErrCapacityBelowRegistrations):
		return response.Conflict(c, "Max participants cannot be lower than current registrations")
	case errors.Is(err, services.ErrInvalidSchedule):
		return response.ValidationError(c, err)
	case errors.Is(err, services.ErrInvalidImage):
		return response.BadRequest(c, "Image must be a JPEG, PNG or WebP file")
	case errors.Is(err, services.ErrImageTooLarge):
		return response.Error(c, fiber.StatusRequestEntityTooLarge, "Image must be 5MB or smaller", "PAYLOAD_TOO_LARGE")
	case errors.Is(err, services.ErrImageUploadDisabled):
		return response.ServiceUnavailable(c, "Image upload is not configured")
	case errors.Is(err, services.ErrEmailTaken):
		return response.Conflict(c, "Email is already registered")
	case errors.Is(err, services.ErrStudentIDTaken):
		return response.Conflict(c, "Student ID is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrStudentNotFound):
		return response.NotFound(c, "Student not found")
	case errors.Is(err, services.ErrAdminNotFound):
		return response.NotFound(c, "Admin not found")
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return response.InternalServerError(c, fallback)
}
